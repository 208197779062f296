package catalog

// SelectionKind distinguishes sidebar selection events.
type SelectionKind string

const (
	SelectionCategory    SelectionKind = "category"
	SelectionSubCategory SelectionKind = "subCategory"
)

// Selection is emitted by the navigation tree when the user picks a
// category or subcategory. ID is empty for the "All categories" entry. The
// tree knows nothing about what listeners do with these; the feed
// subscribes and adjusts its filter.
type Selection struct {
	Kind SelectionKind
	Name string
	ID   string
}
