// Package normalize turns the backend's inconsistent response shapes into
// canonical entities. The backend wraps payloads in different envelopes
// ({data: [...]}, kind-specific keys, or a bare array) and nests product
// references under either productId or product; everything downstream works
// on the shapes defined here and nothing else.
package normalize

import "encoding/json"

// Variant is one purchasable configuration of a product.
type Variant struct {
	RAM      string  `json:"ram"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SubCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CategoryID  string `json:"categoryId"`
	Description string `json:"description"`
}

// Product is the canonical product shape. Price and Stock are the flat
// fallback fields some responses carry; use DisplayPrice and DisplayStock,
// which prefer the first variant.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	SubCategoryID string    `json:"subCategoryId"`
	Variants      []Variant `json:"variants"`
	Images        []string  `json:"images"`
	Image         string    `json:"image"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
}

// WishlistItem always carries a resolved product; raw items whose product
// reference cannot be resolved never become WishlistItems.
type WishlistItem struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId"`
	Product Product `json:"product"`
}

// the backend is Mongo-flavored and ids arrive as _id; accept both.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID     string `json:"_id"`
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = firstNonEmpty(raw.MongoID, raw.ID)
	c.Name = raw.Name
	c.Description = raw.Description
	return nil
}

func (s *SubCategory) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID     string `json:"_id"`
		ID          string `json:"id"`
		Name        string `json:"name"`
		CategoryID  string `json:"categoryId"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = firstNonEmpty(raw.MongoID, raw.ID)
	s.Name = raw.Name
	s.CategoryID = raw.CategoryID
	s.Description = raw.Description
	return nil
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID       string    `json:"_id"`
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		Description   string    `json:"description"`
		SubCategoryID string    `json:"subCategoryId"`
		Variants      []Variant `json:"variants"`
		Images        []string  `json:"images"`
		Image         string    `json:"image"`
		Price         float64   `json:"price"`
		Stock         int       `json:"stock"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = firstNonEmpty(raw.MongoID, raw.ID)
	p.Name = raw.Name
	p.Description = raw.Description
	p.SubCategoryID = raw.SubCategoryID
	p.Variants = raw.Variants
	p.Images = raw.Images
	p.Image = raw.Image
	p.Price = raw.Price
	p.Stock = raw.Stock
	return nil
}

// DisplayPrice prefers the first variant's price, then the flat price field.
func (p Product) DisplayPrice() float64 {
	if len(p.Variants) > 0 {
		return p.Variants[0].Price
	}
	return p.Price
}

// DisplayStock prefers the first variant's quantity, then the flat stock field.
func (p Product) DisplayStock() int {
	if len(p.Variants) > 0 {
		return p.Variants[0].Quantity
	}
	return p.Stock
}

// ImageURL applies the shared image resolution rule to this product.
func (p Product) ImageURL() string {
	return ImageURL(p.Images, p.Image)
}
