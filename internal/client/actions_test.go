package client

import (
	"context"
	"testing"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
	"github.com/fintrackapp/fintrack-be/internal/models"
)

func TestDeleteRemovesOptimisticallyAndConfirms(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	row := view("a", "Groceries", 1250)
	api.pages = []*models.PaginatedTransactions{pageOf(row, view("b", "Rent", 90000))}
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	actions := NewActionController(api, list, notifier)
	if !actions.CanDelete() {
		t.Fatal("expected delete to be available")
	}

	if err := actions.Delete(context.Background(), "a", row); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got := list.Transactions()
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only b to remain, got %+v", got)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "a" {
		t.Fatalf("expected delete call for a, got %v", api.deleted)
	}
	if len(notifier.successes) != 1 {
		t.Fatalf("expected success notification, got %v", notifier.successes)
	}
	if !actions.CanDelete() {
		t.Fatal("expected busy flag cleared after delete")
	}
}

func TestDeleteFailureReinsertsRowWithoutDuplicating(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	row := view("a", "Groceries", 1250)
	api.pages = []*models.PaginatedTransactions{pageOf(row, view("b", "Rent", 90000))}
	api.deleteErr = apperrors.Transaction("Transaction not found")
	notifier := &recordingNotifier{}
	list := loadedController(t, api, notifier)

	actions := NewActionController(api, list, notifier)
	err := actions.Delete(context.Background(), "a", row)
	if apperrors.KindOf(err) != apperrors.KindTransaction {
		t.Fatalf("expected transaction kind, got %v", err)
	}

	got := list.Transactions()
	if len(got) != 2 {
		t.Fatalf("expected the evicted row back exactly once, got %d entries", len(got))
	}
	seen := 0
	for _, v := range got {
		if v.ID == "a" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("expected row a exactly once, got %d", seen)
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "Transaction not found" {
		t.Fatalf("expected not-found message surfaced, got %v", notifier.errors)
	}
}
