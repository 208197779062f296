package catalog

import (
	"encoding/base64"
	"hash/fnv"
	"io"
	"net/url"
	"strconv"
	"strings"

	"seclob/internal/api"

	"github.com/samber/lo"
)

// DefaultPageSize matches the storefront's default rows-per-page choice.
const DefaultPageSize = 10

// FilterState is the client-side filter over the product feed. Only the
// subcategory id participates in the server-side query; the category id is
// tracked for the sidebar but never narrows the feed (existing backend
// contract, kept as-is).
type FilterState struct {
	CategoryID    string
	SubCategoryID string
	Search        string
	Page          int
	PageSize      int
}

func NewFilterState(pageSize int) FilterState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return FilterState{Page: 1, PageSize: pageSize}
}

// Signature identifies one product-feed query. A response is applied only
// if the signature it was dispatched under still matches.
func (s FilterState) Signature() string {
	h := fnv.New64a()
	lo.Must(io.WriteString(h, s.SubCategoryID))
	lo.Must(io.WriteString(h, "\x00"))
	lo.Must(io.WriteString(h, s.Search))
	lo.Must(io.WriteString(h, "\x00"))
	lo.Must(io.WriteString(h, strconv.Itoa(s.Page)))
	lo.Must(io.WriteString(h, "\x00"))
	lo.Must(io.WriteString(h, strconv.Itoa(s.PageSize)))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Query builds the product listing query, omitting empty fields.
func (s FilterState) Query() api.ProductQuery {
	return api.ProductQuery{
		Page:        s.Page,
		Limit:       s.PageSize,
		Search:      s.Search,
		SubCategory: s.SubCategoryID,
	}
}

// Values renders the state onto the catalog route's query string. An empty
// search means the parameter is absent, never "search=". This is the
// state-to-URL half of the mirror; FilterFromValues is the other half.
func (s FilterState) Values() url.Values {
	values := url.Values{}
	if s.Search != "" {
		values.Set("search", s.Search)
	}
	if s.SubCategoryID != "" {
		values.Set("subCategory", s.SubCategoryID)
	}
	if s.Page > 1 {
		values.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize != DefaultPageSize {
		values.Set("limit", strconv.Itoa(s.PageSize))
	}
	return values
}

// FilterFromValues restores filter state from a catalog URL, so search
// links are shareable and browser history navigation lands on the right
// query.
func FilterFromValues(values url.Values, defaultPageSize int) FilterState {
	state := NewFilterState(defaultPageSize)
	state.Search = strings.TrimSpace(values.Get("search"))
	state.SubCategoryID = strings.TrimSpace(values.Get("subCategory"))
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		state.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		state.PageSize = limit
	}
	return state
}
