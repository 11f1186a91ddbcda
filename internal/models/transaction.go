package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is the stored transaction row. Amount is an integer count
// of minor currency units (cents); it is never a float.
type Transaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_transactions_user" json:"user_id"`
	TypeID          uuid.UUID `gorm:"type:uuid;not null;index:idx_transactions_type" json:"type_id"`
	CategoryID      uuid.UUID `gorm:"type:uuid;not null;index:idx_transactions_category" json:"category_id"`
	PaymentMethodID uuid.UUID `gorm:"type:uuid;not null" json:"payment_method_id"`
	StatusID        uuid.UUID `gorm:"type:uuid;not null" json:"status_id"`
	Description     string    `gorm:"type:text" json:"description"`
	Amount          int64     `gorm:"type:bigint;not null;default:0" json:"amount"`
	TransactionDate time.Time `gorm:"type:date;not null;index:idx_transactions_date" json:"transaction_date"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships (denormalized into TransactionView at read time)
	User          User              `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Type          TransactionType   `gorm:"foreignKey:TypeID;references:ID" json:"-"`
	Category      Category          `gorm:"foreignKey:CategoryID;references:ID" json:"-"`
	PaymentMethod PaymentMethod     `gorm:"foreignKey:PaymentMethodID;references:ID" json:"-"`
	Status        TransactionStatus `gorm:"foreignKey:StatusID;references:ID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate sets UUID before creating
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TransactionView is the client-visible shape: foreign keys plus the
// denormalized display fields derived from the lookup tables.
type TransactionView struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	TypeID          string `json:"type_id"`
	CategoryID      string `json:"category_id"`
	PaymentMethodID string `json:"payment_method_id"`
	StatusID        string `json:"status_id"`
	Date            string `json:"date"` // YYYY-MM-DD
	User            string `json:"user"`
	Name            string `json:"name"`
	Amount          int64  `json:"amount"` // cents
	Type            string `json:"type"`
	Category        string `json:"category"`
	PaymentMethod   string `json:"paymentMethod"`
	Status          string `json:"status"`
}

// TransactionPatch is a partial TransactionView. Nil fields are "leave
// unchanged" in optimistic merges and server updates.
type TransactionPatch struct {
	TypeID          *string `json:"type_id,omitempty"`
	CategoryID      *string `json:"category_id,omitempty"`
	PaymentMethodID *string `json:"payment_method_id,omitempty"`
	Date            *string `json:"date,omitempty"`
	Name            *string `json:"name,omitempty"`
	Amount          *int64  `json:"amount,omitempty"`
	Type            *string `json:"type,omitempty"`
	Category        *string `json:"category,omitempty"`
	PaymentMethod   *string `json:"paymentMethod,omitempty"`
}

// ApplyTo shallow-merges the set fields of the patch onto a view.
func (p *TransactionPatch) ApplyTo(v *TransactionView) {
	if p.TypeID != nil {
		v.TypeID = *p.TypeID
	}
	if p.CategoryID != nil {
		v.CategoryID = *p.CategoryID
	}
	if p.PaymentMethodID != nil {
		v.PaymentMethodID = *p.PaymentMethodID
	}
	if p.Date != nil {
		v.Date = *p.Date
	}
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Amount != nil {
		v.Amount = *p.Amount
	}
	if p.Type != nil {
		v.Type = *p.Type
	}
	if p.Category != nil {
		v.Category = *p.Category
	}
	if p.PaymentMethod != nil {
		v.PaymentMethod = *p.PaymentMethod
	}
}

// CreateTransactionRequest represents transaction creation input.
// Status is assigned server-side (always APPROVED); clients never send it.
type CreateTransactionRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=255"`
	Amount          int64  `json:"amount" validate:"gte=0"`
	Date            string `json:"date" validate:"required"` // YYYY-MM-DD
	TypeID          string `json:"type_id" validate:"required,uuid"`
	CategoryID      string `json:"category_id" validate:"required,uuid"`
	PaymentMethodID string `json:"payment_method_id" validate:"required,uuid"`
}

// UpdateTransactionRequest represents a partial transaction update
type UpdateTransactionRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Amount          *int64  `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Date            *string `json:"date,omitempty"`
	TypeID          *string `json:"type_id,omitempty" validate:"omitempty,uuid"`
	CategoryID      *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	PaymentMethodID *string `json:"payment_method_id,omitempty" validate:"omitempty,uuid"`
	StatusID        *string `json:"status_id,omitempty" validate:"omitempty,uuid"`
}

// PaginatedTransactions represents a page of transactions
type PaginatedTransactions struct {
	Data       []TransactionView `json:"data"`
	TotalPages int               `json:"total_pages"`
	TotalItems int64             `json:"total_items"`
}

// DateRange filters transactions by calendar date, inclusive on both ends.
type DateRange struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`
}

// AmountRange filters transactions by amount in cents, inclusive.
type AmountRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Filter represents transaction filtering options. A nil/empty field
// means "no constraint". List fields are OR within the field; fields
// combine with AND.
type Filter struct {
	Search         string       `json:"search,omitempty"`
	DateRange      *DateRange   `json:"date_range,omitempty"`
	AmountRange    *AmountRange `json:"amount_range,omitempty"`
	Types          []string     `json:"types,omitempty"`
	Categories     []string     `json:"categories,omitempty"`
	PaymentMethods []string     `json:"payment_methods,omitempty"`
	Statuses       []string     `json:"statuses,omitempty"`
}

// IsZero reports whether the filter constrains anything at all.
func (f *Filter) IsZero() bool {
	if f == nil {
		return true
	}
	return f.Search == "" && f.DateRange == nil && f.AmountRange == nil &&
		len(f.Types) == 0 && len(f.Categories) == 0 &&
		len(f.PaymentMethods) == 0 && len(f.Statuses) == 0
}

// ListQuery bundles pagination with the active filter set.
type ListQuery struct {
	Page     int
	PageSize int
	Filter   *Filter
}
