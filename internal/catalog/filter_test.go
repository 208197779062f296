package catalog

import (
	"net/url"
	"testing"
)

func TestFilterValues_OmitsEmptySearch(t *testing.T) {
	t.Parallel()

	state := NewFilterState(DefaultPageSize)
	state.Search = "phone"
	if got := state.Values().Get("search"); got != "phone" {
		t.Fatalf("expected search=phone, got %q", got)
	}

	state.Search = ""
	if _, present := state.Values()["search"]; present {
		t.Fatal("cleared search must not appear in the query string at all")
	}
}

func TestFilterValues_DefaultsProduceBareURL(t *testing.T) {
	t.Parallel()

	state := NewFilterState(DefaultPageSize)
	if got := state.Values().Encode(); got != "" {
		t.Fatalf("default state should encode to nothing, got %q", got)
	}
}

func TestFilterValues_Roundtrip(t *testing.T) {
	t.Parallel()

	state := NewFilterState(DefaultPageSize)
	state.Search = "pixel"
	state.SubCategoryID = "s1"
	state.Page = 3
	state.PageSize = 20

	restored := FilterFromValues(state.Values(), DefaultPageSize)
	if restored.Search != "pixel" || restored.SubCategoryID != "s1" || restored.Page != 3 || restored.PageSize != 20 {
		t.Fatalf("roundtrip mismatch: %+v", restored)
	}
}

func TestFilterFromValues_IgnoresJunk(t *testing.T) {
	t.Parallel()

	values := url.Values{}
	values.Set("page", "-2")
	values.Set("limit", "zero")
	values.Set("search", "  pixel  ")

	state := FilterFromValues(values, DefaultPageSize)
	if state.Page != 1 {
		t.Fatalf("bad page should fall back to 1, got %d", state.Page)
	}
	if state.PageSize != DefaultPageSize {
		t.Fatalf("bad limit should fall back to default, got %d", state.PageSize)
	}
	if state.Search != "pixel" {
		t.Fatalf("search should be trimmed, got %q", state.Search)
	}
}

func TestSignature_ChangesWithEachQueryField(t *testing.T) {
	t.Parallel()

	base := NewFilterState(DefaultPageSize)
	seen := map[string]string{"base": base.Signature()}

	variants := map[string]FilterState{
		"search":   {Search: "x", Page: 1, PageSize: DefaultPageSize},
		"subcat":   {SubCategoryID: "s1", Page: 1, PageSize: DefaultPageSize},
		"page":     {Page: 2, PageSize: DefaultPageSize},
		"pagesize": {Page: 1, PageSize: 25},
	}
	for name, state := range variants {
		sig := state.Signature()
		for other, existing := range seen {
			if sig == existing {
				t.Fatalf("signature for %s collides with %s", name, other)
			}
		}
		seen[name] = sig
	}
}

func TestSignature_IgnoresCategoryID(t *testing.T) {
	t.Parallel()

	// The category id never reaches the product query, so it must not
	// change the signature either.
	a := FilterState{CategoryID: "c1", Page: 1, PageSize: DefaultPageSize}
	b := FilterState{CategoryID: "c2", Page: 1, PageSize: DefaultPageSize}
	if a.Signature() != b.Signature() {
		t.Fatal("category id should not affect the query signature")
	}
}

func TestQuery_OnlySubCategoryIsSent(t *testing.T) {
	t.Parallel()

	state := FilterState{CategoryID: "c1", SubCategoryID: "s1", Page: 2, PageSize: 10}
	query := state.Query()
	if query.SubCategory != "s1" {
		t.Fatalf("expected subCategory s1, got %q", query.SubCategory)
	}
	if query.Category != "" {
		t.Fatalf("category id must not be part of the product query, got %q", query.Category)
	}
}
