package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"seclob/internal/api"
)

// fakeProductLister records every query and answers via respond, which
// tests swap out mid-flight to simulate races and failures.
type fakeProductLister struct {
	queries []api.ProductQuery
	respond func(api.ProductQuery) (json.RawMessage, error)
}

func (f *fakeProductLister) Products(_ context.Context, query api.ProductQuery) (json.RawMessage, error) {
	f.queries = append(f.queries, query)
	return f.respond(query)
}

func respondWith(payload string) func(api.ProductQuery) (json.RawMessage, error) {
	return func(api.ProductQuery) (json.RawMessage, error) {
		return json.RawMessage(payload), nil
	}
}

const onePixel = `{"products":[{"_id":"p1","name":"Pixel 9"}],"totalProducts":1}`

func TestFeed_EmptyResultIsEmptyNotError(t *testing.T) {
	t.Parallel()

	fake := &fakeProductLister{respond: respondWith(`{"data":[],"total":0}`)}
	feed := NewFeed(fake, DefaultPageSize)

	feed.Sync(t.Context(), NewFilterState(DefaultPageSize))

	view := feed.View()
	if view.Status != StatusEmpty {
		t.Fatalf("expected empty status, got %s", view.Status)
	}
	if view.Total != 0 || len(view.Products) != 0 {
		t.Fatalf("expected nothing listed, got total=%d len=%d", view.Total, len(view.Products))
	}
}

func TestFeed_ErrorStateAndRetry(t *testing.T) {
	t.Parallel()

	var notices []string
	fake := &fakeProductLister{respond: func(api.ProductQuery) (json.RawMessage, error) {
		return nil, errors.New("connection refused")
	}}
	feed := NewFeed(fake, DefaultPageSize, WithNotifier(func(msg string) { notices = append(notices, msg) }))

	feed.SetSearch(t.Context(), "pixel")

	view := feed.View()
	if view.Status != StatusError {
		t.Fatalf("expected error status, got %s", view.Status)
	}
	if len(view.Products) != 0 || view.Total != 0 {
		t.Fatal("a failed fetch must clear the listing")
	}
	if view.Notice == "" {
		t.Fatal("a failed fetch must leave a visible notice")
	}
	if len(notices) != 1 {
		t.Fatalf("expected one notification, got %d", len(notices))
	}

	fake.respond = respondWith(onePixel)
	feed.Retry(t.Context())

	if got := feed.View(); got.Status != StatusReady || got.Total != 1 {
		t.Fatalf("retry should recover: %+v", got)
	}
	last := fake.queries[len(fake.queries)-1]
	first := fake.queries[0]
	if last != first {
		t.Fatalf("retry must reissue the same query: first %+v last %+v", first, last)
	}
}

func TestFeed_SearchResetsToPageOne(t *testing.T) {
	t.Parallel()

	fake := &fakeProductLister{respond: respondWith(onePixel)}
	feed := NewFeed(fake, DefaultPageSize)

	feed.SetPage(t.Context(), 3, 0)
	feed.SetSearch(t.Context(), "pixel")

	last := fake.queries[len(fake.queries)-1]
	if last.Page != 1 || last.Search != "pixel" {
		t.Fatalf("search should query page 1, got %+v", last)
	}
}

func TestFeed_UnchangedSearchDoesNotRefetch(t *testing.T) {
	t.Parallel()

	fake := &fakeProductLister{respond: respondWith(onePixel)}
	feed := NewFeed(fake, DefaultPageSize)

	feed.SetSearch(t.Context(), "pixel")
	calls := len(fake.queries)
	feed.SetSearch(t.Context(), "pixel")

	if len(fake.queries) != calls {
		t.Fatal("setting the same search term again must not refetch")
	}
}

func TestFeed_ClearedSearchDropsTermEntirely(t *testing.T) {
	t.Parallel()

	fake := &fakeProductLister{respond: respondWith(onePixel)}
	feed := NewFeed(fake, DefaultPageSize)

	feed.SetSearch(t.Context(), "pixel")
	feed.SetSearch(t.Context(), "")

	last := fake.queries[len(fake.queries)-1]
	if last.Search != "" {
		t.Fatalf("cleared search should query without a term, got %q", last.Search)
	}
	if _, present := feed.Filter().Values()["search"]; present {
		t.Fatal("cleared search must vanish from the URL mirror")
	}
}

func TestFeed_SelectionDrivesQuery(t *testing.T) {
	t.Parallel()

	fake := &fakeProductLister{respond: respondWith(onePixel)}
	feed := NewFeed(fake, DefaultPageSize)

	feed.SetPage(t.Context(), 2, 0)
	calls := len(fake.queries)

	// Picking a category alone never narrows the feed.
	feed.ApplySelection(t.Context(), Selection{Kind: SelectionCategory, Name: "Phones", ID: "c1"})
	if len(fake.queries) != calls {
		t.Fatal("category-only selection must not refetch")
	}

	feed.ApplySelection(t.Context(), Selection{Kind: SelectionSubCategory, Name: "Android", ID: "s1"})
	last := fake.queries[len(fake.queries)-1]
	if last.SubCategory != "s1" || last.Page != 1 {
		t.Fatalf("subcategory selection should query subCategory=s1 page=1, got %+v", last)
	}

	feed.ApplySelection(t.Context(), Selection{Kind: SelectionCategory, Name: AllCategories})
	last = fake.queries[len(fake.queries)-1]
	if last.SubCategory != "" || last.Page != 1 {
		t.Fatalf("All categories should clear the subcategory, got %+v", last)
	}
}

func TestFeed_PageChangeKeepsFilter(t *testing.T) {
	t.Parallel()

	fake := &fakeProductLister{respond: respondWith(onePixel)}
	feed := NewFeed(fake, DefaultPageSize)

	feed.SetSearch(t.Context(), "pixel")
	feed.ApplySelection(t.Context(), Selection{Kind: SelectionSubCategory, ID: "s1"})
	feed.SetPage(t.Context(), 4, 0)

	last := fake.queries[len(fake.queries)-1]
	if last.Search != "pixel" || last.SubCategory != "s1" || last.Page != 4 {
		t.Fatalf("paging must keep the filter, got %+v", last)
	}
}

func TestFeed_StaleResponseNeverOverwritesNewerFilter(t *testing.T) {
	t.Parallel()

	stale := `{"products":[{"_id":"old","name":"Stale"}],"totalProducts":1}`
	fresh := `{"products":[{"_id":"new","name":"Fresh"}],"totalProducts":1}`

	fake := &fakeProductLister{}
	feed := NewFeed(fake, DefaultPageSize)
	fake.respond = func(query api.ProductQuery) (json.RawMessage, error) {
		if query.Search == "" {
			// While the first request is in flight the user types a
			// search; that dispatches a second, newer fetch before the
			// first response lands.
			fake.respond = respondWith(fresh)
			feed.SetSearch(context.Background(), "fresh")
			return json.RawMessage(stale), nil
		}
		return json.RawMessage(fresh), nil
	}

	feed.Sync(t.Context(), NewFilterState(DefaultPageSize))

	view := feed.View()
	if view.Status != StatusReady || len(view.Products) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Products[0].ID != "new" {
		t.Fatalf("stale response overwrote the newer one: got %s", view.Products[0].ID)
	}
}

func TestFeed_SyncSkipsWhenStateUnchanged(t *testing.T) {
	t.Parallel()

	fake := &fakeProductLister{respond: respondWith(onePixel)}
	feed := NewFeed(fake, DefaultPageSize)

	state := NewFilterState(DefaultPageSize)
	feed.Sync(t.Context(), state)
	calls := len(fake.queries)

	feed.Sync(t.Context(), state)
	if len(fake.queries) != calls {
		t.Fatal("syncing an identical state must not refetch")
	}

	state.Page = 2
	feed.Sync(t.Context(), state)
	if len(fake.queries) != calls+1 {
		t.Fatal("a changed state must refetch")
	}
}
