package client

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fintrackapp/fintrack-be/internal/models"
)

// fakeAPI is an in-memory TransactionAPI for controller tests. Each
// method can be overridden per test; unset methods succeed with the
// configured pages.
type fakeAPI struct {
	mu sync.Mutex

	pages       []*models.PaginatedTransactions
	options     *models.FormOptions
	listCalls   []listCall
	getErr      error
	optionsErr  error
	createErr   error
	updateErr   error
	updateHook  func()
	deleteErr   error
	created     []*models.CreateTransactionRequest
	updated     map[string]*models.UpdateTransactionRequest
	deleted     []string
	createdView *models.TransactionView
}

type listCall struct {
	page   int
	filter *models.Filter
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		options: &models.FormOptions{
			Types: []models.SelectOption{
				{Label: "Income", Value: "type-income"},
				{Label: "Expense", Value: "type-expense"},
			},
			Categories: []models.SelectOption{
				{Label: "Food", Value: "cat-food"},
				{Label: "Housing", Value: "cat-housing"},
			},
			PaymentMethods: []models.SelectOption{
				{Label: "Credit card", Value: "pm-card"},
			},
		},
		updated: make(map[string]*models.UpdateTransactionRequest),
	}
}

func (f *fakeAPI) GetTransactions(ctx context.Context, page, pageSize int, filter *models.Filter) (*models.PaginatedTransactions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, listCall{page: page, filter: filter})
	if f.getErr != nil {
		return nil, f.getErr
	}
	if len(f.pages) == 0 {
		return &models.PaginatedTransactions{Data: []models.TransactionView{}}, nil
	}
	result := f.pages[0]
	if len(f.pages) > 1 {
		f.pages = f.pages[1:]
	}
	return result, nil
}

func (f *fakeAPI) GetFormOptions(ctx context.Context) (*models.FormOptions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.optionsErr != nil {
		return nil, f.optionsErr
	}
	return f.options, nil
}

func (f *fakeAPI) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.TransactionView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createdView != nil {
		return f.createdView, nil
	}
	return &models.TransactionView{
		ID:     fmt.Sprintf("server-%d", len(f.created)),
		Name:   req.Name,
		Amount: req.Amount,
		Date:   req.Date,
	}, nil
}

func (f *fakeAPI) UpdateTransaction(ctx context.Context, id string, req *models.UpdateTransactionRequest) error {
	f.mu.Lock()
	hook := f.updateHook
	f.updated[id] = req
	err := f.updateErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeAPI) DeleteTransaction(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	infos     []string
	loadings  []string
	dismissed []string
}

func (r *recordingNotifier) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, message)
}

func (r *recordingNotifier) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recordingNotifier) Info(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, message)
}

func (r *recordingNotifier) Loading(message string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := fmt.Sprintf("loading-%d", len(r.loadings)+1)
	r.loadings = append(r.loadings, message)
	return id
}

func (r *recordingNotifier) Dismiss(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dismissed = append(r.dismissed, id)
}

func view(id, name string, amount int64) models.TransactionView {
	return models.TransactionView{
		ID:     id,
		Name:   name,
		Amount: amount,
		Date:   "2026-01-15",
		Type:   "EXPENSE",
		Status: "approved",
	}
}

func pageOf(views ...models.TransactionView) *models.PaginatedTransactions {
	return &models.PaginatedTransactions{
		Data:       views,
		TotalPages: 1,
		TotalItems: int64(len(views)),
	}
}

func loadedController(t *testing.T, api *fakeAPI, notifier Notifier) *ListController {
	t.Helper()
	list := NewListController(api, notifier, 10)
	if err := list.Load(context.Background(), 1); err != nil {
		t.Fatalf("load: %v", err)
	}
	return list
}
