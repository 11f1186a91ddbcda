package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry records one mutation against a stored entity, with the entity
// state before and after the change as JSONB snapshots.
type Entry struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index"`

	Action   string `json:"action" gorm:"type:text;not null;index"` // create, update, delete
	Entity   string `json:"entity" gorm:"type:text;not null;index"` // transaction, user, ...
	EntityID string `json:"entity_id" gorm:"type:text;index"`

	OldValue datatypes.JSON `json:"old_value,omitempty" gorm:"type:jsonb"`
	NewValue datatypes.JSON `json:"new_value,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Entry) TableName() string {
	return "audit_log"
}

// BeforeCreate sets UUID before creating
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	EntityTransaction = "transaction"
)
