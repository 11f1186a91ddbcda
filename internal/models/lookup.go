package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionType is a closed lookup set: INCOME or EXPENSE.
type TransactionType struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TransactionType) TableName() string {
	return "transaction_types"
}

type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// PaymentMethod is scoped to the user that registered it.
type PaymentMethod struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// TransactionStatus holds the workflow states; new transactions are
// always created with APPROVED.
type TransactionStatus struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TransactionStatus) TableName() string {
	return "transaction_status"
}

const (
	StatusApproved = "APPROVED"
	StatusPending  = "PENDING"
	StatusRejected = "REJECTED"

	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// SelectOption is a {label, value} pair for selection inputs; Value is
// the foreign key as a string.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormOptions are the three parallel lookup lists loaded once per
// list-view session and treated as read-only by the client.
type FormOptions struct {
	Types          []SelectOption `json:"types"`
	Categories     []SelectOption `json:"categories"`
	PaymentMethods []SelectOption `json:"paymentMethods"`
}
