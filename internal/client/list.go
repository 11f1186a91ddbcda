package client

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
	"github.com/fintrackapp/fintrack-be/internal/models"
)

// ListController owns the client-visible list of transactions: the
// authoritative in-memory projection of "transactions currently
// believed to exist" for the active page and filter set. Presentation
// code applies optimistic mutations through it without waiting for
// server confirmation; every row carries a monotonic version so stale
// confirmations and rollbacks arriving after a newer optimistic write
// are dropped instead of clobbering it.
type ListController struct {
	api      TransactionAPI
	notifier Notifier

	mu          sync.Mutex
	items       []models.TransactionView
	versions    map[string]uint64 // row id -> version; survives removal
	formOptions *models.FormOptions
	filter      *models.Filter
	page        int
	pageSize    int
	totalPages  int
	totalItems  int64
	lastError   string
}

// NewListController creates a list controller. Nothing is loaded until
// Load is called.
func NewListController(api TransactionAPI, notifier Notifier, pageSize int) *ListController {
	if pageSize < 1 {
		pageSize = 10
	}
	return &ListController{
		api:      api,
		notifier: notifier,
		versions: make(map[string]uint64),
		page:     1,
		pageSize: pageSize,
	}
}

// Load fetches the requested page and the static form options
// concurrently and replaces the current state entirely. On failure the
// previous state is kept, a data-load error is surfaced, and no retry
// is attempted.
func (l *ListController) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	l.mu.Lock()
	filter := l.filter
	pageSize := l.pageSize
	l.mu.Unlock()

	var (
		result  *models.PaginatedTransactions
		options *models.FormOptions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result, err = l.api.GetTransactions(gctx, page, pageSize, filter)
		return err
	})
	g.Go(func() (err error) {
		options, err = l.api.GetFormOptions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		loadErr := apperrors.Wrap(apperrors.KindDataLoad, "Failed to load transactions", err)
		l.mu.Lock()
		l.lastError = loadErr.Message
		l.mu.Unlock()
		l.notifier.Error(loadErr.Message)
		return loadErr
	}

	l.replaceState(result, options, page)
	return nil
}

// ChangeFilter replaces the active filter set wholesale (no merging
// with the previous filters) and reloads from page 1.
func (l *ListController) ChangeFilter(ctx context.Context, filter *models.Filter) error {
	l.mu.Lock()
	l.filter = filter
	pageSize := l.pageSize
	l.mu.Unlock()

	result, err := l.api.GetTransactions(ctx, 1, pageSize, filter)
	if err != nil {
		loadErr := apperrors.Wrap(apperrors.KindDataLoad, "Failed to filter transactions", err)
		l.mu.Lock()
		l.lastError = loadErr.Message
		l.mu.Unlock()
		l.notifier.Error(loadErr.Message)
		return loadErr
	}

	l.replaceState(result, nil, 1)
	return nil
}

// ApplyOptimisticUpsert serves create, update and rollback through one
// signature. A nil patch removes the entry with that id (no-op when
// absent). When the id is not present, the patch materializes as a new
// leading entry. When it is present, set fields merge shallowly onto
// the existing entry. Returns the row's version after the mutation,
// for use with ConfirmMutation/RevertTo.
func (l *ListController) ApplyOptimisticUpsert(id string, patch *models.TransactionPatch) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	version := l.bumpVersion(id)

	if patch == nil {
		l.removeLocked(id)
		return version
	}

	for i := range l.items {
		if l.items[i].ID == id {
			patch.ApplyTo(&l.items[i])
			return version
		}
	}

	view := models.TransactionView{ID: id}
	patch.ApplyTo(&view)
	l.items = append([]models.TransactionView{view}, l.items...)
	return version
}

// InsertView prepends a fully-formed entry (used for server-confirmed
// creations where every field is known).
func (l *ListController) InsertView(view models.TransactionView) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	version := l.bumpVersion(view.ID)
	for i := range l.items {
		if l.items[i].ID == view.ID {
			l.items[i] = view
			return version
		}
	}
	l.items = append([]models.TransactionView{view}, l.items...)
	return version
}

// ApplyOptimisticRemove filters the entry out of the current list.
// Used for delete-in-progress. Returns the row's version after the
// removal so a failed delete can RevertTo the evicted row.
func (l *ListController) ApplyOptimisticRemove(id string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	version := l.bumpVersion(id)
	l.removeLocked(id)
	return version
}

// ConfirmMutation settles a row at its server-confirmed fields, but
// only when the row has not moved past the version observed when the
// mutation was applied. Stale confirmations are dropped so a newer
// optimistic write is never overwritten by a slow response.
func (l *ListController) ConfirmMutation(id string, patch *models.TransactionPatch, version uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.versions[id] != version {
		return false
	}
	if patch == nil {
		return true
	}
	for i := range l.items {
		if l.items[i].ID == id {
			patch.ApplyTo(&l.items[i])
			return true
		}
	}
	return false
}

// RevertTo restores a row to its pre-mutation snapshot after a
// confirmed failure. The revert is dropped when a newer optimistic
// write has touched the row since. Evicted rows are re-inserted at the
// front.
func (l *ListController) RevertTo(id string, snapshot models.TransactionView, version uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.versions[id] != version {
		return false
	}
	l.versions[id] = version + 1

	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i] = snapshot
			return true
		}
	}
	l.items = append([]models.TransactionView{snapshot}, l.items...)
	return true
}

// Transactions returns a copy of the visible list.
func (l *ListController) Transactions() []models.TransactionView {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.TransactionView, len(l.items))
	copy(out, l.items)
	return out
}

// FormOptions returns the lookup lists loaded with the list, or nil
// before the first successful Load.
func (l *ListController) FormOptions() *models.FormOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.formOptions
}

// Filter returns the active filter set.
func (l *ListController) Filter() *models.Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

func (l *ListController) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *ListController) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPages
}

func (l *ListController) TotalItems() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalItems
}

// Err returns the last load error message, empty after a successful
// load.
func (l *ListController) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastError
}

func (l *ListController) replaceState(result *models.PaginatedTransactions, options *models.FormOptions, page int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = result.Data
	l.totalPages = result.TotalPages
	l.totalItems = result.TotalItems
	l.page = page
	l.lastError = ""
	if options != nil {
		l.formOptions = options
	}
	for i := range l.items {
		l.bumpVersion(l.items[i].ID)
	}
}

func (l *ListController) bumpVersion(id string) uint64 {
	l.versions[id]++
	return l.versions[id]
}

func (l *ListController) removeLocked(id string) {
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}
