package client

import (
	"github.com/google/uuid"

	"github.com/fintrackapp/fintrack-be/internal/shared/utils"
)

// Notifier is the capability controllers use to surface transient
// feedback. Injected so the core stays testable without a UI toast
// system.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
	// Loading shows a dismissable in-progress notification and returns
	// its id for a later Dismiss.
	Loading(message string) string
	Dismiss(id string)
}

// LogNotifier writes notifications to the structured log. Used by
// headless callers and as the default when no UI is attached.
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	utils.LogInfo(message, map[string]interface{}{"notification": "success"})
}

func (LogNotifier) Error(message string) {
	utils.LogWarn(message, map[string]interface{}{"notification": "error"})
}

func (LogNotifier) Info(message string) {
	utils.LogInfo(message, map[string]interface{}{"notification": "info"})
}

func (LogNotifier) Loading(message string) string {
	id := uuid.NewString()
	utils.LogInfo(message, map[string]interface{}{"notification": "loading", "id": id})
	return id
}

func (LogNotifier) Dismiss(id string) {}
