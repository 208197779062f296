package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"seclob/internal/api"
	"seclob/internal/normalize"
)

// Status is the product feed's derived state.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

type productLister interface {
	Products(ctx context.Context, query api.ProductQuery) (json.RawMessage, error)
}

// Feed owns the paginated product listing for the current filter. Every
// mutation captures the filter signature at dispatch time and a response is
// applied only while that signature is still current, so a slow response
// for an old filter can never overwrite a newer one.
type Feed struct {
	mu       sync.Mutex
	client   productLister
	filter   FilterState
	status   Status
	products []normalize.Product
	total    int
	notice   string

	// notify surfaces user-visible failures; the shell decides how.
	notify func(string)
}

type FeedOption func(*Feed)

func WithNotifier(fn func(string)) FeedOption {
	return func(f *Feed) { f.notify = fn }
}

func NewFeed(client productLister, pageSize int, opts ...FeedOption) *Feed {
	f := &Feed{
		client: client,
		filter: NewFilterState(pageSize),
		status: StatusLoading,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter returns a copy of the current filter state.
func (f *Feed) Filter() FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter
}

// SetSearch updates the search term and refetches at page 1. A cleared
// search removes the term entirely; the URL mirror then drops the
// parameter.
func (f *Feed) SetSearch(ctx context.Context, query string) {
	f.mu.Lock()
	if f.filter.Search == query {
		f.mu.Unlock()
		return
	}
	f.filter.Search = query
	f.filter.Page = 1
	f.dispatchLocked(ctx)
}

// ApplySelection is the tree's selection listener. Category selections
// track the category id and, for "All categories", clear the subcategory;
// only an actual subcategory change triggers a refetch, because the backend
// never filters by category id alone.
func (f *Feed) ApplySelection(ctx context.Context, sel Selection) {
	f.mu.Lock()
	previous := f.filter.SubCategoryID
	switch sel.Kind {
	case SelectionCategory:
		f.filter.CategoryID = sel.ID
		if sel.ID == "" {
			f.filter.SubCategoryID = ""
		}
	case SelectionSubCategory:
		f.filter.SubCategoryID = sel.ID
	}
	if f.filter.SubCategoryID == previous {
		f.mu.Unlock()
		return
	}
	f.filter.Page = 1
	f.dispatchLocked(ctx)
}

// SetPage refetches at the given page (and page size, when non-zero)
// without resetting the filter.
func (f *Feed) SetPage(ctx context.Context, page, pageSize int) {
	f.mu.Lock()
	if page > 0 {
		f.filter.Page = page
	}
	if pageSize > 0 {
		f.filter.PageSize = pageSize
	}
	f.dispatchLocked(ctx)
}

// Sync adopts an externally supplied filter state (the URL side of the
// mirror) and refetches if it differs from the current one, or if the feed
// has never loaded.
func (f *Feed) Sync(ctx context.Context, state FilterState) {
	f.mu.Lock()
	if f.status != StatusLoading && state.Signature() == f.filter.Signature() {
		f.mu.Unlock()
		return
	}
	f.filter = state
	f.dispatchLocked(ctx)
}

// Retry re-issues the exact query that failed.
func (f *Feed) Retry(ctx context.Context) {
	f.mu.Lock()
	f.dispatchLocked(ctx)
}

// dispatchLocked captures the current signature and query, releases the
// lock, and performs the fetch. Callers must hold f.mu.
func (f *Feed) dispatchLocked(ctx context.Context) {
	f.status = StatusLoading
	f.notice = ""
	signature := f.filter.Signature()
	query := f.filter.Query()
	f.mu.Unlock()

	f.fetch(ctx, signature, query)
}

func (f *Feed) fetch(ctx context.Context, signature string, query api.ProductQuery) {
	raw, err := f.client.Products(ctx, query)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.filter.Signature() != signature {
		// a newer filter took over while this request was in flight
		slog.DebugContext(ctx, "discarding stale product response", "signature", signature)
		return
	}

	if err != nil {
		slog.ErrorContext(ctx, "failed to load products", "error", err)
		f.status = StatusError
		f.products = nil
		f.total = 0
		f.notice = "Failed to load products"
		if f.notify != nil {
			f.notify(f.notice)
		}
		return
	}

	page := normalize.Products(ctx, raw)
	f.products = page.Items
	f.total = page.Total
	if len(page.Items) == 0 {
		f.status = StatusEmpty
	} else {
		f.status = StatusReady
	}
}

// FeedView is a consistent snapshot for rendering.
type FeedView struct {
	Status   Status              `json:"status"`
	Products []normalize.Product `json:"products"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
	Notice   string              `json:"notice,omitempty"`
}

func (f *Feed) View() FeedView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FeedView{
		Status:   f.status,
		Products: f.products,
		Total:    f.total,
		Page:     f.filter.Page,
		PageSize: f.filter.PageSize,
		Notice:   f.notice,
	}
}
