package services

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
	"github.com/fintrackapp/fintrack-be/internal/core/audit"
	"github.com/fintrackapp/fintrack-be/internal/models"
	"github.com/fintrackapp/fintrack-be/internal/repositories"
)

const dateLayout = "2006-01-02"

type cachedOptions struct {
	options   *models.FormOptions
	fetchedAt time.Time
}

// TransactionService maps between stored rows and the client-visible
// TransactionView shape, and enforces soft-delete and fixed-status
// creation semantics.
type TransactionService struct {
	transactionRepo repositories.TransactionRepo
	lookupRepo      repositories.LookupRepo
	auditService    *audit.Service

	optionsTTL   time.Duration
	optionsMu    sync.Mutex
	optionsCache map[uuid.UUID]cachedOptions
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepo,
	lookupRepo repositories.LookupRepo,
	auditService *audit.Service,
	optionsTTL time.Duration,
) *TransactionService {
	if optionsTTL <= 0 {
		optionsTTL = 15 * time.Minute
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		lookupRepo:      lookupRepo,
		auditService:    auditService,
		optionsTTL:      optionsTTL,
		optionsCache:    make(map[uuid.UUID]cachedOptions),
	}
}

// GetTransactions returns one page of transactions matching the filter,
// excluding soft-deleted rows, ordered by transaction date descending.
func (s *TransactionService) GetTransactions(query models.ListQuery) (*models.PaginatedTransactions, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = 10
	}

	rows, total, err := s.transactionRepo.List(query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransaction, "Failed to fetch transactions", err)
	}

	views := make([]models.TransactionView, len(rows))
	for i := range rows {
		views[i] = toView(&rows[i])
	}

	totalPages := int(total) / query.PageSize
	if int(total)%query.PageSize > 0 {
		totalPages++
	}

	return &models.PaginatedTransactions{
		Data:       views,
		TotalPages: totalPages,
		TotalItems: total,
	}, nil
}

// GetFormOptions returns the three lookup lists used by selection
// inputs. Payment methods are scoped to the user. Results are cached
// per user for the configured TTL; the scheduler refreshes the cache.
func (s *TransactionService) GetFormOptions(userID uuid.UUID) (*models.FormOptions, error) {
	s.optionsMu.Lock()
	if cached, ok := s.optionsCache[userID]; ok && time.Since(cached.fetchedAt) < s.optionsTTL {
		s.optionsMu.Unlock()
		return cached.options, nil
	}
	s.optionsMu.Unlock()

	options, err := s.fetchFormOptions(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransaction, "Failed to fetch form options", err)
	}

	s.optionsMu.Lock()
	s.optionsCache[userID] = cachedOptions{options: options, fetchedAt: time.Now()}
	s.optionsMu.Unlock()

	return options, nil
}

// RefreshOptionsCache drops every cached entry and re-warms them.
// Invoked by the cron scheduler.
func (s *TransactionService) RefreshOptionsCache() error {
	s.optionsMu.Lock()
	userIDs := make([]uuid.UUID, 0, len(s.optionsCache))
	for id := range s.optionsCache {
		userIDs = append(userIDs, id)
	}
	s.optionsCache = make(map[uuid.UUID]cachedOptions)
	s.optionsMu.Unlock()

	for _, id := range userIDs {
		if _, err := s.GetFormOptions(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransactionService) fetchFormOptions(userID uuid.UUID) (*models.FormOptions, error) {
	var (
		types      []models.TransactionType
		categories []models.Category
		methods    []models.PaymentMethod
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		types, err = s.lookupRepo.ListTypes()
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.lookupRepo.ListCategories()
		return err
	})
	g.Go(func() (err error) {
		methods, err = s.lookupRepo.ListPaymentMethods(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	options := &models.FormOptions{
		Types:          make([]models.SelectOption, len(types)),
		Categories:     make([]models.SelectOption, len(categories)),
		PaymentMethods: make([]models.SelectOption, len(methods)),
	}
	for i, t := range types {
		options.Types[i] = models.SelectOption{Label: t.Name, Value: t.ID.String()}
	}
	for i, c := range categories {
		options.Categories[i] = models.SelectOption{Label: c.Name, Value: c.ID.String()}
	}
	for i, m := range methods {
		options.PaymentMethods[i] = models.SelectOption{Label: m.Name, Value: m.ID.String()}
	}
	return options, nil
}

// CreateTransaction creates a transaction with APPROVED status and
// returns the full denormalized view (server assigns id, status and
// display labels).
func (s *TransactionService) CreateTransaction(userID uuid.UUID, req *models.CreateTransactionRequest) (*models.TransactionView, error) {
	if req.Name == "" || req.Date == "" || req.TypeID == "" || req.CategoryID == "" || req.PaymentMethodID == "" {
		return nil, apperrors.Transaction("Missing required fields for transaction creation")
	}
	if req.Amount < 0 {
		return nil, apperrors.InvalidAmount("Amount cannot be negative")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.Transaction("Invalid transaction date")
	}

	status, err := s.lookupRepo.GetStatusByName(models.StatusApproved)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnexpected, "APPROVED status is not configured", err)
	}

	typeID, err := uuid.Parse(req.TypeID)
	if err != nil {
		return nil, apperrors.InvalidType("Invalid transaction type")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apperrors.Transaction("Invalid category")
	}
	paymentMethodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, apperrors.Transaction("Invalid payment method")
	}

	transaction := &models.Transaction{
		UserID:          userID,
		TypeID:          typeID,
		CategoryID:      categoryID,
		PaymentMethodID: paymentMethodID,
		StatusID:        status.ID,
		Description:     req.Name,
		Amount:          req.Amount,
		TransactionDate: date,
	}

	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransaction, "Failed to create transaction", err)
	}

	// Re-read with relations so the denormalized labels come from the
	// canonical lookup tables, not from the request.
	created, err := s.transactionRepo.GetByID(transaction.ID.String())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransaction, "Failed to create transaction", err)
	}

	view := toView(created)
	if s.auditService != nil {
		s.auditService.LogChange(userID, audit.ActionCreate, audit.EntityTransaction, view.ID, nil, view)
	}
	return &view, nil
}

// UpdateTransaction applies the set fields of the request to an
// existing transaction.
func (s *TransactionService) UpdateTransaction(id string, req *models.UpdateTransactionRequest) error {
	existing, err := s.transactionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Transaction not found")
		}
		return apperrors.Wrap(apperrors.KindTransaction, "Failed to update transaction", err)
	}
	oldView := toView(existing)

	if req.Name != nil {
		if *req.Name == "" {
			return apperrors.Transaction("Transaction name cannot be empty")
		}
		existing.Description = *req.Name
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return apperrors.InvalidAmount("Amount cannot be negative")
		}
		existing.Amount = *req.Amount
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return apperrors.Transaction("Invalid transaction date")
		}
		existing.TransactionDate = date
	}
	if err := assignID(&existing.TypeID, req.TypeID, "Invalid transaction type"); err != nil {
		return err
	}
	if err := assignID(&existing.CategoryID, req.CategoryID, "Invalid category"); err != nil {
		return err
	}
	if err := assignID(&existing.PaymentMethodID, req.PaymentMethodID, "Invalid payment method"); err != nil {
		return err
	}
	if err := assignID(&existing.StatusID, req.StatusID, "Invalid status"); err != nil {
		return err
	}

	if err := s.transactionRepo.Update(existing); err != nil {
		return apperrors.Wrap(apperrors.KindTransaction, "Failed to update transaction", err)
	}

	if s.auditService != nil {
		updated, err := s.transactionRepo.GetByID(id)
		if err == nil {
			newView := toView(updated)
			s.auditService.LogChange(existing.UserID, audit.ActionUpdate, audit.EntityTransaction, id, oldView, newView)
		}
	}
	return nil
}

// DeleteTransaction soft-deletes a transaction; the row is excluded
// from all queries but never physically removed.
func (s *TransactionService) DeleteTransaction(id string) error {
	existing, err := s.transactionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Transaction not found")
		}
		return apperrors.Wrap(apperrors.KindTransaction, "Failed to delete transaction", err)
	}
	oldView := toView(existing)

	if err := s.transactionRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Transaction not found")
		}
		return apperrors.Wrap(apperrors.KindTransaction, "Failed to delete transaction", err)
	}

	if s.auditService != nil {
		s.auditService.LogChange(existing.UserID, audit.ActionDelete, audit.EntityTransaction, id, oldView, nil)
	}
	return nil
}

// CategoryTotal is one slice of the per-category summary.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"` // cents
}

// Summary aggregates a user's transactions.
type Summary struct {
	IncomeTotal       int64           `json:"income_total"`  // cents
	ExpenseTotal      int64           `json:"expense_total"` // cents
	Balance           int64           `json:"balance"`       // cents
	ExpenseByCategory []CategoryTotal `json:"expense_by_category"`
}

// GetSummary computes income/expense totals and per-category expense
// totals for the user.
func (s *TransactionService) GetSummary(userID uuid.UUID) (*Summary, error) {
	byType, err := s.transactionRepo.SumByType(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransaction, "Failed to compute summary", err)
	}
	byCategory, err := s.transactionRepo.SumByCategory(userID, models.TypeExpense)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransaction, "Failed to compute summary", err)
	}

	summary := &Summary{
		IncomeTotal:  byType[models.TypeIncome],
		ExpenseTotal: byType[models.TypeExpense],
	}
	summary.Balance = summary.IncomeTotal - summary.ExpenseTotal

	summary.ExpenseByCategory = make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		summary.ExpenseByCategory = append(summary.ExpenseByCategory, CategoryTotal{Category: category, Total: total})
	}
	// Largest first, name as tiebreaker, so charts and exports are stable
	sort.Slice(summary.ExpenseByCategory, func(i, j int) bool {
		a, b := summary.ExpenseByCategory[i], summary.ExpenseByCategory[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})

	return summary, nil
}

func assignID(dst *uuid.UUID, src *string, msg string) error {
	if src == nil {
		return nil
	}
	id, err := uuid.Parse(*src)
	if err != nil {
		return apperrors.Transaction(msg)
	}
	*dst = id
	return nil
}

// toView denormalizes a stored row into the client-visible shape.
// Status is lowercased for display; type names stay uppercase because
// UI color-coding matches on INCOME/EXPENSE exactly.
func toView(t *models.Transaction) models.TransactionView {
	return models.TransactionView{
		ID:              t.ID.String(),
		UserID:          t.UserID.String(),
		TypeID:          t.TypeID.String(),
		CategoryID:      t.CategoryID.String(),
		PaymentMethodID: t.PaymentMethodID.String(),
		StatusID:        t.StatusID.String(),
		Date:            t.TransactionDate.Format(dateLayout),
		User:            t.User.FullName(),
		Name:            t.Description,
		Amount:          t.Amount,
		Type:            t.Type.Name,
		Category:        t.Category.Name,
		PaymentMethod:   t.PaymentMethod.Name,
		Status:          strings.ToLower(t.Status.Name),
	}
}
