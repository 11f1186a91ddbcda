package audit

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fintrackapp/fintrack-be/internal/shared/utils"
)

// Service provides audit logging. Failures are logged, never
// propagated: an audit miss must not fail the mutation it describes.
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LogChange records a mutation with before/after snapshots. Either
// snapshot may be nil (create has no old value, delete no new one).
func (s *Service) LogChange(userID uuid.UUID, action, entity, entityID string, oldValue, newValue interface{}) {
	entry := &Entry{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}

	var err error
	if oldValue != nil {
		if entry.OldValue, err = json.Marshal(oldValue); err != nil {
			utils.LogWarn("audit: failed to serialize old value", map[string]interface{}{"entity_id": entityID})
		}
	}
	if newValue != nil {
		if entry.NewValue, err = json.Marshal(newValue); err != nil {
			utils.LogWarn("audit: failed to serialize new value", map[string]interface{}{"entity_id": entityID})
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		utils.LogError("audit: failed to write entry", err, map[string]interface{}{
			"action": action, "entity": entity, "entity_id": entityID,
		})
	}
}

// Recent returns the latest audit entries, newest first.
func (s *Service) Recent(limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var entries []Entry
	err := s.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
