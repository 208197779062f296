package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"seclob/internal/normalize"

	"golang.org/x/sync/errgroup"
)

// AllCategories is the synthetic top entry that clears the filter.
const AllCategories = "All categories"

type categoryLister interface {
	Categories(ctx context.Context) (json.RawMessage, error)
	SubCategoriesByCategory(ctx context.Context, categoryID string) (json.RawMessage, error)
}

// Tree is the sidebar navigation state: the category list, lazily loaded
// subcategories per category, and which categories are expanded. It emits
// selection events and never holds product data.
type Tree struct {
	mu            sync.Mutex
	client        categoryLister
	categories    []normalize.Category
	subCategories map[string][]normalize.SubCategory
	expanded      map[string]struct{}
	loaded        bool

	onSelect func(context.Context, Selection)
}

func NewTree(client categoryLister) *Tree {
	return &Tree{
		client:        client,
		subCategories: make(map[string][]normalize.SubCategory),
		expanded:      make(map[string]struct{}),
	}
}

// OnSelect registers the selection listener. One listener is enough; the
// feed is the only consumer.
func (t *Tree) OnSelect(fn func(context.Context, Selection)) {
	t.mu.Lock()
	t.onSelect = fn
	t.mu.Unlock()
}

// LoadCategories fetches the category list, then fans out one subcategory
// fetch per category. Per-category failures resolve to an empty list so one
// broken category never blanks the whole sidebar.
func (t *Tree) LoadCategories(ctx context.Context) error {
	raw, err := t.client.Categories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	categories := normalize.Categories(ctx, raw)

	loaded := make([][]normalize.SubCategory, len(categories))
	var g errgroup.Group
	for i, category := range categories {
		g.Go(func() error {
			raw, err := t.client.SubCategoriesByCategory(ctx, category.ID)
			if err != nil {
				slog.WarnContext(ctx, "failed to load subcategories", "category", category.Name, "error", err)
				loaded[i] = []normalize.SubCategory{}
				return nil
			}
			loaded[i] = normalize.SubCategories(ctx, raw)
			return nil
		})
	}
	_ = g.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.categories = categories
	t.subCategories = make(map[string][]normalize.SubCategory, len(categories))
	for i, category := range categories {
		t.subCategories[category.ID] = loaded[i]
	}
	t.loaded = true
	return nil
}

// SelectCategory handles a click on a category row. "All categories"
// collapses everything and emits an empty-id selection; any other category
// toggles its expansion and emits its id regardless of toggle direction.
func (t *Tree) SelectCategory(ctx context.Context, name string) {
	t.mu.Lock()
	if name == AllCategories {
		t.expanded = make(map[string]struct{})
		listener := t.onSelect
		t.mu.Unlock()
		emit(ctx, listener, Selection{Kind: SelectionCategory, Name: AllCategories})
		return
	}

	var categoryID string
	for _, category := range t.categories {
		if category.Name == name {
			categoryID = category.ID
			break
		}
	}
	if categoryID == "" {
		t.mu.Unlock()
		slog.DebugContext(ctx, "ignoring selection of unknown category", "name", name)
		return
	}

	if _, ok := t.expanded[categoryID]; ok {
		delete(t.expanded, categoryID)
	} else {
		t.expanded[categoryID] = struct{}{}
	}
	listener := t.onSelect
	t.mu.Unlock()

	emit(ctx, listener, Selection{Kind: SelectionCategory, Name: name, ID: categoryID})
}

// SelectSubCategory emits a selection event; expansion state is untouched.
func (t *Tree) SelectSubCategory(ctx context.Context, name, id string) {
	t.mu.Lock()
	listener := t.onSelect
	t.mu.Unlock()
	emit(ctx, listener, Selection{Kind: SelectionSubCategory, Name: name, ID: id})
}

func emit(ctx context.Context, listener func(context.Context, Selection), sel Selection) {
	if listener != nil {
		listener(ctx, sel)
	}
}

// Expanded reports whether the category id is currently expanded.
func (t *Tree) Expanded(categoryID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.expanded[categoryID]
	return ok
}

// CategoryNode is one sidebar row as it should be rendered.
type CategoryNode struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Expanded      bool                    `json:"expanded"`
	SubCategories []normalize.SubCategory `json:"subCategories,omitempty"`

	// NoSubCategories marks an expanded category whose list came back
	// empty; it renders as a disabled placeholder row, not as nothing.
	NoSubCategories bool `json:"noSubCategories,omitempty"`
}

// Render produces the sidebar view model. A category's subcategories show
// only while it is expanded.
func (t *Tree) Render() []CategoryNode {
	t.mu.Lock()
	defer t.mu.Unlock()

	nodes := make([]CategoryNode, 0, len(t.categories))
	for _, category := range t.categories {
		_, expanded := t.expanded[category.ID]
		node := CategoryNode{
			ID:       category.ID,
			Name:     category.Name,
			Expanded: expanded,
		}
		if expanded {
			subs := t.subCategories[category.ID]
			if len(subs) == 0 {
				node.NoSubCategories = true
			} else {
				node.SubCategories = subs
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Ready satisfies the readiness check: the sidebar must have loaded once.
func (t *Tree) Ready(ctx context.Context) error {
	t.mu.Lock()
	loaded := t.loaded
	t.mu.Unlock()
	if loaded {
		return nil
	}
	return t.LoadCategories(ctx)
}
