package client

import (
	"context"
	"sync/atomic"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
	"github.com/fintrackapp/fintrack-be/internal/models"
)

// ActionController drives the per-row actions menu. One delete at a
// time; callers disable the menu while Busy reports true.
type ActionController struct {
	api      TransactionAPI
	list     *ListController
	notifier Notifier

	busy atomic.Bool
}

func NewActionController(api TransactionAPI, list *ListController, notifier Notifier) *ActionController {
	return &ActionController{
		api:      api,
		list:     list,
		notifier: notifier,
	}
}

// Busy reports whether a delete is in flight.
func (a *ActionController) Busy() bool {
	return a.busy.Load()
}

// CanDelete reports whether a new delete may start. The caller asks the
// user for confirmation before calling Delete.
func (a *ActionController) CanDelete() bool {
	return !a.busy.Load()
}

// Delete removes the row optimistically and confirms with the server.
// On failure the evicted row is re-inserted unchanged and the error is
// surfaced; the list is never reloaded wholesale.
func (a *ActionController) Delete(ctx context.Context, id string, row models.TransactionView) error {
	if !a.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer a.busy.Store(false)

	version := a.list.ApplyOptimisticRemove(id)

	if err := a.api.DeleteTransaction(ctx, id); err != nil {
		a.list.RevertTo(id, row, version)
		a.notifier.Error(apperrors.UserMessage(err))
		return err
	}

	a.notifier.Success("Transaction deleted")
	return nil
}
