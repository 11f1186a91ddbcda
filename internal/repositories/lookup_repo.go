package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fintrackapp/fintrack-be/internal/models"
)

// LookupRepo reads the lookup tables backing the form options and the
// status/user resolution performed on create.
type LookupRepo interface {
	ListTypes() ([]models.TransactionType, error)
	ListCategories() ([]models.Category, error)
	ListPaymentMethods(userID uuid.UUID) ([]models.PaymentMethod, error)
	GetStatusByName(name string) (*models.TransactionStatus, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}

type lookupRepo struct {
	db *gorm.DB
}

// NewLookupRepo creates a new lookup repository
func NewLookupRepo(db *gorm.DB) LookupRepo {
	return &lookupRepo{db: db}
}

func (r *lookupRepo) ListTypes() ([]models.TransactionType, error) {
	var types []models.TransactionType
	err := r.db.Order("name ASC").Find(&types).Error
	return types, err
}

func (r *lookupRepo) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// ListPaymentMethods returns the user's payment methods; uuid.Nil
// returns everyone's (used by the cache warmer).
func (r *lookupRepo) ListPaymentMethods(userID uuid.UUID) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	query := r.db.Order("name ASC")
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Find(&methods).Error
	return methods, err
}

func (r *lookupRepo) GetStatusByName(name string) (*models.TransactionStatus, error) {
	var status models.TransactionStatus
	err := r.db.Where("name = ?", name).First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *lookupRepo) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *lookupRepo) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
