package normalize

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Kind selects the envelope key a payload may be wrapped in.
type Kind string

const (
	KindCategories    Kind = "categories"
	KindSubCategories Kind = "subCategories"
	KindProducts      Kind = "products"
	KindWishlist      Kind = "wishlist"
)

// Entities locates the payload array inside raw. Resolution order: the
// value itself, a data field, the kind's envelope key, then empty. Shape
// mismatches are not errors; they resolve to an empty sequence.
func Entities(raw json.RawMessage, kind Kind) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}
	for _, key := range []string{"data", string(kind)} {
		nested, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(nested, &items); err == nil {
			return items
		}
	}
	return nil
}

func decodeEach[T any](ctx context.Context, raw json.RawMessage, kind Kind) []T {
	items := Entities(raw, kind)
	out := make([]T, 0, len(items))
	for _, item := range items {
		var entity T
		if err := json.Unmarshal(item, &entity); err != nil {
			slog.DebugContext(ctx, "dropping malformed entity", "kind", kind, "error", err)
			continue
		}
		out = append(out, entity)
	}
	return out
}

func Categories(ctx context.Context, raw json.RawMessage) []Category {
	return decodeEach[Category](ctx, raw, KindCategories)
}

func SubCategories(ctx context.Context, raw json.RawMessage) []SubCategory {
	return decodeEach[SubCategory](ctx, raw, KindSubCategories)
}

// ProductPage is a normalized product listing response.
type ProductPage struct {
	Items []Product
	Total int
}

// Products normalizes a product listing payload. Total comes from the
// envelope's total or totalProducts field when present and defaults to the
// returned item count otherwise.
func Products(ctx context.Context, raw json.RawMessage) ProductPage {
	page := ProductPage{
		Items: decodeEach[Product](ctx, raw, KindProducts),
	}
	page.Total = len(page.Items)

	var envelope struct {
		Total         *int `json:"total"`
		TotalProducts *int `json:"totalProducts"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Total != nil {
			page.Total = *envelope.Total
		} else if envelope.TotalProducts != nil {
			page.Total = *envelope.TotalProducts
		}
	}
	return page
}

// SingleProduct normalizes a product-detail payload, which may arrive bare
// or wrapped in data/product.
func SingleProduct(raw json.RawMessage) (Product, bool) {
	var product Product
	if err := json.Unmarshal(raw, &product); err == nil && product.ID != "" {
		return product, true
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Product{}, false
	}
	for _, key := range []string{"data", "product"} {
		nested, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(nested, &product); err == nil && product.ID != "" {
			return product, true
		}
	}
	return Product{}, false
}

// WishlistItems normalizes a wishlist payload. The backend nests the
// product under productId (populated object or bare id string) or product;
// items without a resolvable product id and name are dropped, not surfaced
// as errors.
func WishlistItems(ctx context.Context, raw json.RawMessage) []WishlistItem {
	entries := Entities(raw, KindWishlist)
	items := make([]WishlistItem, 0, len(entries))
	for _, entry := range entries {
		item, ok := wishlistItem(entry)
		if !ok {
			slog.DebugContext(ctx, "dropping wishlist item without resolvable product", "raw", string(entry))
			continue
		}
		items = append(items, item)
	}
	return items
}

func wishlistItem(entry json.RawMessage) (WishlistItem, bool) {
	var raw struct {
		MongoID   string          `json:"_id"`
		ID        string          `json:"id"`
		UserID    string          `json:"userId"`
		ProductID json.RawMessage `json:"productId"`
		Product   json.RawMessage `json:"product"`
	}
	if err := json.Unmarshal(entry, &raw); err != nil {
		return WishlistItem{}, false
	}

	product, ok := resolveProductRef(raw.ProductID, raw.Product)
	if !ok || product.ID == "" || product.Name == "" {
		return WishlistItem{}, false
	}

	return WishlistItem{
		ID:      firstNonEmpty(raw.MongoID, raw.ID),
		UserID:  raw.UserID,
		Product: product,
	}, true
}

// resolveProductRef accepts productId as a populated object, productId as a
// bare id string, or a product object, in that order of preference for the
// populated shapes.
func resolveProductRef(productID, productField json.RawMessage) (Product, bool) {
	var product Product
	if len(productField) > 0 {
		if err := json.Unmarshal(productField, &product); err == nil && product.ID != "" {
			return product, true
		}
	}
	if len(productID) > 0 {
		if err := json.Unmarshal(productID, &product); err == nil && product.ID != "" {
			return product, true
		}
		var id string
		if err := json.Unmarshal(productID, &id); err == nil && id != "" {
			return Product{ID: id}, true
		}
	}
	return Product{}, false
}
