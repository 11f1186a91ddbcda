package client

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
	"github.com/fintrackapp/fintrack-be/internal/models"
	"github.com/fintrackapp/fintrack-be/internal/money"
)

// FormData is the raw editor state at submission time. Amount is the
// text exactly as typed; the id fields carry the selected option
// values.
type FormData struct {
	Name            string
	Amount          string
	Date            string // YYYY-MM-DD
	TypeID          string
	CategoryID      string
	PaymentMethodID string
}

// FormController drives the create/edit transaction form. A nil
// editing snapshot means create; otherwise Submit updates the
// snapshotted row and uses the snapshot for rollback.
type FormController struct {
	api      TransactionAPI
	list     *ListController
	notifier Notifier

	// session identity, shown on optimistically created rows before
	// the server echoes the real ones
	userID   string
	userName string

	editing *models.TransactionView
	onClose func()

	submitting atomic.Bool
}

func NewFormController(
	api TransactionAPI,
	list *ListController,
	notifier Notifier,
	userID, userName string,
	editing *models.TransactionView,
	onClose func(),
) *FormController {
	if onClose == nil {
		onClose = func() {}
	}
	return &FormController{
		api:      api,
		list:     list,
		notifier: notifier,
		userID:   userID,
		userName: userName,
		editing:  editing,
		onClose:  onClose,
	}
}

// Submitting reports whether a submission is in flight.
func (f *FormController) Submitting() bool {
	return f.submitting.Load()
}

// Submit validates the form, applies the mutation optimistically,
// closes the editor and confirms against the server. A second Submit
// while one is in flight is ignored. Validation failures keep the
// editor open; server failures roll the optimistic change back.
func (f *FormController) Submit(ctx context.Context, data FormData) error {
	if !f.submitting.CompareAndSwap(false, true) {
		return nil
	}
	defer f.submitting.Store(false)

	loadingID := f.notifier.Loading("Saving transaction...")

	amount, err := money.ParseInput(data.Amount)
	if err != nil {
		f.notifier.Dismiss(loadingID)
		f.notifier.Error(apperrors.UserMessage(err))
		return err
	}

	options := f.list.FormOptions()
	if options == nil {
		loadErr := apperrors.DataLoad("Form options are not loaded")
		f.notifier.Dismiss(loadingID)
		f.notifier.Error(loadErr.Message)
		return loadErr
	}

	// The type label drives income/expense presentation, so an
	// unresolvable type id is fatal. Category and payment method
	// labels only decorate the row and degrade to empty.
	typeLabel := optionLabel(options.Types, data.TypeID)
	if typeLabel == "" {
		typeErr := apperrors.InvalidType("Unknown transaction type")
		f.notifier.Dismiss(loadingID)
		f.notifier.Error(typeErr.Message)
		return typeErr
	}
	typeLabel = strings.ToUpper(typeLabel)
	categoryLabel := optionLabel(options.Categories, data.CategoryID)
	paymentLabel := optionLabel(options.PaymentMethods, data.PaymentMethodID)

	if f.editing == nil {
		err = f.create(ctx, data, amount, typeLabel, categoryLabel, paymentLabel)
	} else {
		err = f.update(ctx, data, amount, typeLabel, categoryLabel, paymentLabel)
	}

	f.notifier.Dismiss(loadingID)
	if err != nil {
		f.notifier.Error(apperrors.UserMessage(err))
		return err
	}
	f.notifier.Success("Transaction saved")
	return nil
}

// create inserts a temporary row under a placeholder id, then swaps it
// for the server-confirmed row. On failure only the temporary row is
// removed; the rest of the list is untouched.
func (f *FormController) create(ctx context.Context, data FormData, amount int64, typeLabel, categoryLabel, paymentLabel string) error {
	tempID := uuid.NewString()
	f.list.InsertView(models.TransactionView{
		ID:              tempID,
		UserID:          f.userID,
		TypeID:          data.TypeID,
		CategoryID:      data.CategoryID,
		PaymentMethodID: data.PaymentMethodID,
		Date:            data.Date,
		User:            f.userName,
		Name:            data.Name,
		Amount:          amount,
		Type:            typeLabel,
		Category:        categoryLabel,
		PaymentMethod:   paymentLabel,
		Status:          strings.ToLower(models.StatusApproved),
	})
	f.onClose()

	confirmed, err := f.api.CreateTransaction(ctx, &models.CreateTransactionRequest{
		Name:            data.Name,
		Amount:          amount,
		Date:            data.Date,
		TypeID:          data.TypeID,
		CategoryID:      data.CategoryID,
		PaymentMethodID: data.PaymentMethodID,
	})
	if err != nil {
		f.list.ApplyOptimisticUpsert(tempID, nil)
		return err
	}

	f.list.ApplyOptimisticUpsert(tempID, nil)
	f.list.InsertView(*confirmed)
	return nil
}

// update merges the form fields onto the row, then confirms with the
// server. On failure the row is restored to its pre-edit snapshot
// unless a newer optimistic write has touched it since.
func (f *FormController) update(ctx context.Context, data FormData, amount int64, typeLabel, categoryLabel, paymentLabel string) error {
	snapshot := *f.editing
	id := snapshot.ID

	patch := &models.TransactionPatch{
		TypeID:          &data.TypeID,
		CategoryID:      &data.CategoryID,
		PaymentMethodID: &data.PaymentMethodID,
		Date:            &data.Date,
		Name:            &data.Name,
		Amount:          &amount,
		Type:            &typeLabel,
		Category:        &categoryLabel,
		PaymentMethod:   &paymentLabel,
	}
	version := f.list.ApplyOptimisticUpsert(id, patch)
	f.onClose()

	err := f.api.UpdateTransaction(ctx, id, &models.UpdateTransactionRequest{
		Name:            &data.Name,
		Amount:          &amount,
		Date:            &data.Date,
		TypeID:          &data.TypeID,
		CategoryID:      &data.CategoryID,
		PaymentMethodID: &data.PaymentMethodID,
	})
	if err != nil {
		f.list.RevertTo(id, snapshot, version)
		return err
	}

	// Settle the row at the submitted fields. Dropped when a newer edit
	// landed while the request was in flight.
	f.list.ConfirmMutation(id, patch, version)
	return nil
}

func optionLabel(options []models.SelectOption, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return ""
}
