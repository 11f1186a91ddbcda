package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fintrackapp/fintrack-be/internal/models"
)

// TransactionRepo interface defines transaction storage operations
type TransactionRepo interface {
	Create(transaction *models.Transaction) error
	GetByID(id string) (*models.Transaction, error)
	List(query models.ListQuery) ([]models.Transaction, int64, error)
	Update(transaction *models.Transaction) error
	Delete(id string) error // Soft delete
	SumByCategory(userID uuid.UUID, typeName string) (map[string]int64, error)
	SumByType(userID uuid.UUID) (map[string]int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

// NewTransactionRepo creates a new transaction repository
func NewTransactionRepo(db *gorm.DB) TransactionRepo {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(transaction *models.Transaction) error {
	return r.db.Create(transaction).Error
}

func (r *transactionRepo) GetByID(id string) (*models.Transaction, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID: %w", err)
	}

	var transaction models.Transaction
	err = r.preloaded().First(&transaction, "transactions.id = ?", uid).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// List returns one page of non-deleted transactions plus the total row
// count for the filter. Count and page fetch run concurrently.
func (r *transactionRepo) List(query models.ListQuery) ([]models.Transaction, int64, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var transactions []models.Transaction
	var total int64

	var g errgroup.Group
	g.Go(func() error {
		return r.applyFilter(r.db.Model(&models.Transaction{}), query.Filter).
			Count(&total).Error
	})
	g.Go(func() error {
		return r.applyFilter(r.preloaded(), query.Filter).
			Order("transactions.transaction_date DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&transactions).Error
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (r *transactionRepo) Update(transaction *models.Transaction) error {
	return r.db.Save(transaction).Error
}

func (r *transactionRepo) Delete(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid transaction ID: %w", err)
	}

	// Soft delete; rows are never physically removed
	result := r.db.Delete(&models.Transaction{}, "id = ?", uid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumByCategory totals amounts in cents per category name for one user,
// restricted to a transaction type (INCOME or EXPENSE) when given.
func (r *transactionRepo) SumByCategory(userID uuid.UUID, typeName string) (map[string]int64, error) {
	rows := []struct {
		Name  string
		Total int64
	}{}

	query := r.db.Model(&models.Transaction{}).
		Select("categories.name AS name, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID).
		Group("categories.name")

	if typeName != "" {
		query = query.
			Joins("JOIN transaction_types ON transaction_types.id = transactions.type_id").
			Where("transaction_types.name = ?", typeName)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Name] = row.Total
	}
	return totals, nil
}

// SumByType totals amounts in cents per type name (INCOME/EXPENSE).
func (r *transactionRepo) SumByType(userID uuid.UUID) (map[string]int64, error) {
	rows := []struct {
		Name  string
		Total int64
	}{}

	err := r.db.Model(&models.Transaction{}).
		Select("transaction_types.name AS name, SUM(transactions.amount) AS total").
		Joins("JOIN transaction_types ON transaction_types.id = transactions.type_id").
		Where("transactions.user_id = ?", userID).
		Group("transaction_types.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Name] = row.Total
	}
	return totals, nil
}

func (r *transactionRepo) preloaded() *gorm.DB {
	return r.db.
		Preload("User").
		Preload("Type").
		Preload("Category").
		Preload("PaymentMethod").
		Preload("Status")
}

// applyFilter translates a Filter into WHERE clauses. Absent fields add
// no constraint; list fields are OR within, fields AND across.
func (r *transactionRepo) applyFilter(query *gorm.DB, filter *models.Filter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.
			Joins("JOIN users ON users.id = transactions.user_id").
			Where("LOWER(transactions.description) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ?",
				pattern, pattern, pattern)
	}

	if filter.DateRange != nil {
		if start, err := time.Parse("2006-01-02", filter.DateRange.Start); err == nil {
			query = query.Where("transactions.transaction_date >= ?", start)
		}
		if end, err := time.Parse("2006-01-02", filter.DateRange.End); err == nil {
			// End of range is inclusive of the whole calendar day
			query = query.Where("transactions.transaction_date < ?", end.AddDate(0, 0, 1))
		}
	}

	if filter.AmountRange != nil {
		query = query.Where("transactions.amount >= ? AND transactions.amount <= ?",
			filter.AmountRange.Min, filter.AmountRange.Max)
	}

	if len(filter.Types) > 0 {
		query = query.Where("transactions.type_id IN ?", filter.Types)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("transactions.category_id IN ?", filter.Categories)
	}
	if len(filter.PaymentMethods) > 0 {
		query = query.Where("transactions.payment_method_id IN ?", filter.PaymentMethods)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("transactions.status_id IN ?", filter.Statuses)
	}

	return query
}
