package client

import (
	"context"
	"testing"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
	"github.com/fintrackapp/fintrack-be/internal/models"
)

func validFormData() FormData {
	return FormData{
		Name:            "Groceries",
		Amount:          "R$ 12,50",
		Date:            "2026-01-15",
		TypeID:          "type-expense",
		CategoryID:      "cat-food",
		PaymentMethodID: "pm-card",
	}
}

func TestSubmitCreateSwapsTempEntryForConfirmed(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.createdView = &models.TransactionView{
		ID:     "server-id",
		Name:   "Groceries",
		Amount: 1250,
		Date:   "2026-01-15",
		Type:   "EXPENSE",
		Status: "approved",
	}
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	closed := false
	form := NewFormController(api, list, notifier, "user-1", "Ana Souza", nil, func() { closed = true })

	if err := form.Submit(context.Background(), validFormData()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !closed {
		t.Fatal("expected editor to close")
	}

	got := list.Transactions()
	if len(got) != 1 {
		t.Fatalf("expected exactly the confirmed entry, got %d entries", len(got))
	}
	if got[0].ID != "server-id" {
		t.Fatalf("expected temp entry swapped for server row, got id %q", got[0].ID)
	}
	if len(api.created) != 1 || api.created[0].Amount != 1250 {
		t.Fatalf("expected create request with 1250 cents, got %+v", api.created)
	}
	if len(notifier.successes) != 1 {
		t.Fatalf("expected one success notification, got %v", notifier.successes)
	}
	if len(notifier.dismissed) != 1 {
		t.Fatalf("expected loading notification dismissed, got %v", notifier.dismissed)
	}
}

func TestSubmitCreateFailureRemovesOnlyTempEntry(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.pages = []*models.PaginatedTransactions{pageOf(view("a", "Rent", 90000))}
	api.createErr = apperrors.Transaction("Insert rejected")
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	form := NewFormController(api, list, notifier, "user-1", "Ana Souza", nil, nil)

	if err := form.Submit(context.Background(), validFormData()); err == nil {
		t.Fatal("expected submit error")
	}

	got := list.Transactions()
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only the pre-existing entry to survive, got %+v", got)
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "Insert rejected" {
		t.Fatalf("expected the server message surfaced, got %v", notifier.errors)
	}
}

func TestSubmitUpdateFailureRestoresSnapshot(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	original := view("a", "Groceries", 1250)
	api.pages = []*models.PaginatedTransactions{pageOf(original)}
	api.updateErr = apperrors.Transaction("Transaction not found")
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	form := NewFormController(api, list, notifier, "user-1", "Ana Souza", &original, nil)

	data := validFormData()
	data.Name = "Groceries (edited)"
	data.Amount = "9999"
	if err := form.Submit(context.Background(), data); err == nil {
		t.Fatal("expected submit error")
	}

	got := list.Transactions()
	if len(got) != 1 || got[0] != original {
		t.Fatalf("expected pre-edit snapshot restored, got %+v", got)
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "Transaction not found" {
		t.Fatalf("expected not-found message surfaced, got %v", notifier.errors)
	}
}

func TestSubmitUpdateAppliesOptimisticMergeBeforeConfirmation(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	original := view("a", "Groceries", 1250)
	api.pages = []*models.PaginatedTransactions{pageOf(original)}
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	form := NewFormController(api, list, notifier, "user-1", "Ana Souza", &original, nil)

	data := validFormData()
	data.Amount = "1399"
	if err := form.Submit(context.Background(), data); err != nil {
		t.Fatalf("submit: %v", err)
	}

	got := list.Transactions()[0]
	if got.Amount != 1399 {
		t.Fatalf("expected merged amount, got %d", got.Amount)
	}
	if got.ID != "a" {
		t.Fatalf("update must keep the row id, got %q", got.ID)
	}
	req, ok := api.updated["a"]
	if !ok {
		t.Fatal("expected update request for row a")
	}
	if req.Amount == nil || *req.Amount != 1399 {
		t.Fatalf("expected update request with 1399 cents, got %+v", req)
	}
}

func TestSubmitUpdateConfirmationYieldsToNewerEdit(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	original := view("a", "Groceries", 1250)
	api.pages = []*models.PaginatedTransactions{pageOf(original)}
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	form := NewFormController(api, list, notifier, "user-1", "Ana Souza", &original, nil)

	// Another edit lands while the update request is in flight; its
	// write must survive the confirmation of the older submit.
	newer := int64(7777)
	api.updateHook = func() {
		list.ApplyOptimisticUpsert("a", &models.TransactionPatch{Amount: &newer})
	}

	data := validFormData()
	data.Amount = "1399"
	if err := form.Submit(context.Background(), data); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := list.Transactions()[0].Amount; got != 7777 {
		t.Fatalf("newer edit must win over the stale confirmation, got %d", got)
	}
}

func TestSubmitRejectsGarbageAmountBeforeAnyMutation(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	original := view("a", "Groceries", 1250)
	api.pages = []*models.PaginatedTransactions{pageOf(original)}
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	form := NewFormController(api, list, notifier, "user-1", "Ana Souza", &original, nil)

	data := validFormData()
	data.Amount = "999999999999999999999999999"
	err := form.Submit(context.Background(), data)
	if apperrors.KindOf(err) != apperrors.KindInvalidAmount {
		t.Fatalf("expected invalid-amount kind, got %v", err)
	}
	if list.Transactions()[0] != original {
		t.Fatal("validation failure must not touch the list")
	}
	if len(api.updated) != 0 {
		t.Fatalf("validation failure must not reach the server, got %v", api.updated)
	}
}

func TestSubmitRejectsUnknownTypeID(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	form := NewFormController(api, list, notifier, "user-1", "Ana Souza", nil, nil)

	data := validFormData()
	data.TypeID = "type-unknown"
	err := form.Submit(context.Background(), data)
	if apperrors.KindOf(err) != apperrors.KindInvalidType {
		t.Fatalf("expected invalid-type kind, got %v", err)
	}
	if len(api.created) != 0 {
		t.Fatal("unknown type must not reach the server")
	}
}

func TestSubmitDegradesMissingCategoryLabelToEmpty(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	form := NewFormController(api, list, notifier, "user-1", "Ana Souza", nil, nil)

	data := validFormData()
	data.CategoryID = "cat-unknown"
	if err := form.Submit(context.Background(), data); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(api.created) != 1 {
		t.Fatalf("expected create to proceed, got %d calls", len(api.created))
	}
}
