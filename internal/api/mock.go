package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Mock is an offline stand-in for the backend, for local development
// without a running API. Its responses deliberately use the same
// assortment of envelope shapes the real backend sends.
type Mock struct {
	mu       sync.Mutex
	wishlist map[string][]string
}

func NewMock() *Mock {
	return &Mock{wishlist: map[string][]string{
		"u1": {"p2"},
	}}
}

type mockProduct struct {
	ID            string        `json:"_id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	SubCategoryID string        `json:"subCategoryId"`
	Images        []string      `json:"images,omitempty"`
	Variants      []mockVariant `json:"variants,omitempty"`
}

type mockVariant struct {
	RAM      string  `json:"ram"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

var mockCategories = []map[string]string{
	{"_id": "c1", "name": "Phones"},
	{"_id": "c2", "name": "Laptops"},
}

var mockSubCategories = []map[string]string{
	{"_id": "s1", "name": "Android", "categoryId": "c1"},
	{"_id": "s2", "name": "iPhone", "categoryId": "c1"},
	{"_id": "s3", "name": "Gaming", "categoryId": "c2"},
}

var mockProducts = []mockProduct{
	{
		ID: "p1", Name: "Pixel 9", Description: "Clean Android flagship",
		SubCategoryID: "s1",
		Images:        []string{"https://images.pexels.com/photos/47261/pexels-photo-47261.jpeg"},
		Variants: []mockVariant{
			{RAM: "8 GB", Price: 799, Quantity: 12},
			{RAM: "12 GB", Price: 899, Quantity: 4},
		},
	},
	{
		ID: "p2", Name: "Galaxy S25", Description: "Big screen, bigger battery",
		SubCategoryID: "s1",
		Variants:      []mockVariant{{RAM: "12 GB", Price: 999, Quantity: 7}},
	},
	{
		ID: "p3", Name: "iPhone 16", Description: "You know the one",
		SubCategoryID: "s2",
		Variants:      []mockVariant{{RAM: "8 GB", Price: 1099, Quantity: 20}},
	},
	{
		ID: "p4", Name: "Blade 16", Description: "Gaming laptop",
		SubCategoryID: "s3",
		Variants:      []mockVariant{{RAM: "32 GB", Price: 2499, Quantity: 3}},
	},
}

func (m *Mock) Login(ctx context.Context, req LoginRequest) (json.RawMessage, error) {
	if req.Password == "" {
		return nil, &StatusError{Operation: "login", StatusCode: http.StatusUnauthorized}
	}
	role := "user"
	if strings.HasPrefix(req.Email, "admin@") {
		role = "admin"
	}
	return lo.Must(json.Marshal([]any{
		map[string]string{"message": "Login successful"},
		map[string]string{
			"_id":      "u1",
			"userName": strings.Split(req.Email, "@")[0],
			"email":    req.Email,
			"role":     role,
			"token":    "mock-" + uuid.NewString(),
		},
	})), nil
}

func (m *Mock) Register(ctx context.Context, req RegisterRequest) error {
	return nil
}

// Categories answers with a bare array, the shape the category route
// actually uses.
func (m *Mock) Categories(ctx context.Context) (json.RawMessage, error) {
	return lo.Must(json.Marshal(mockCategories)), nil
}

func (m *Mock) CreateCategory(ctx context.Context, req CreateCategoryRequest) error {
	return nil
}

func (m *Mock) SubCategories(ctx context.Context) (json.RawMessage, error) {
	return wrapData(mockSubCategories)
}

func (m *Mock) SubCategoriesByCategory(ctx context.Context, categoryID string) (json.RawMessage, error) {
	subs := lo.Filter(mockSubCategories, func(s map[string]string, _ int) bool {
		return s["categoryId"] == categoryID
	})
	return wrapData(subs)
}

func (m *Mock) CreateSubCategory(ctx context.Context, req CreateSubCategoryRequest) error {
	return nil
}

func (m *Mock) Products(ctx context.Context, query ProductQuery) (json.RawMessage, error) {
	matches := lo.Filter(mockProducts, func(p mockProduct, _ int) bool {
		if query.SubCategory != "" && p.SubCategoryID != query.SubCategory {
			return false
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query.Search)) {
			return false
		}
		return true
	})
	total := len(matches)
	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit > 0 {
		start := min((page-1)*limit, total)
		matches = matches[start:min(start+limit, total)]
	}
	return lo.Must(json.Marshal(map[string]any{
		"products":      matches,
		"totalProducts": total,
	})), nil
}

func (m *Mock) ProductByID(ctx context.Context, id string) (json.RawMessage, error) {
	product, ok := lo.Find(mockProducts, func(p mockProduct) bool { return p.ID == id })
	if !ok {
		return nil, &StatusError{Operation: fmt.Sprintf("get product %s", id), StatusCode: http.StatusNotFound}
	}
	return lo.Must(json.Marshal(map[string]any{"data": product})), nil
}

func (m *Mock) CreateProduct(ctx context.Context, req CreateProductRequest) error {
	return nil
}

func (m *Mock) UpdateProduct(ctx context.Context, id string, req CreateProductRequest) error {
	return nil
}

// WishlistByUser mixes the productId-object and product-object item
// shapes, as the real wishlist route does.
func (m *Mock) WishlistByUser(ctx context.Context, userID string) (json.RawMessage, error) {
	m.mu.Lock()
	ids := append([]string(nil), m.wishlist[userID]...)
	m.mu.Unlock()

	items := make([]map[string]any, 0, len(ids))
	for i, id := range ids {
		product, ok := lo.Find(mockProducts, func(p mockProduct) bool { return p.ID == id })
		if !ok {
			continue
		}
		key := "productId"
		if i%2 == 1 {
			key = "product"
		}
		items = append(items, map[string]any{"_id": "w" + id, key: product})
	}
	return wrapData(items)
}

func (m *Mock) AddToWishlist(ctx context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !lo.Contains(m.wishlist[userID], productID) {
		m.wishlist[userID] = append(m.wishlist[userID], productID)
	}
	return nil
}

func (m *Mock) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wishlist[userID] = lo.Without(m.wishlist[userID], productID)
	return nil
}

func wrapData(v any) (json.RawMessage, error) {
	return lo.Must(json.Marshal(map[string]any{"data": v})), nil
}
