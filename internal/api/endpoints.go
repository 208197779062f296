package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// ProductQuery mirrors the product listing endpoint's query parameters.
// Empty fields are omitted from the request. The backend filters by
// subCategory only; Category exists on the wire contract but nothing in the
// catalog flow sets it.
type ProductQuery struct {
	Page        int
	Limit       int
	Search      string
	Category    string
	SubCategory string
}

func (q ProductQuery) Values() url.Values {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.SubCategory != "" {
		params.Set("subCategory", q.SubCategory)
	}
	return params
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateSubCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
}

type VariantPayload struct {
	RAM      string  `json:"ram"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CreateProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	SubCategoryID string           `json:"subCategoryId"`
	Variants      []VariantPayload `json:"variants"`
	Images        []string         `json:"images"`
}

type addWishlistRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

// Login returns the raw response body; the backend answers either with a
// [message, user] array or a flat user object, and the session layer owns
// untangling that.
func (c *Client) Login(ctx context.Context, req LoginRequest) (json.RawMessage, error) {
	return c.do(ctx, "login", http.MethodPost, "/user/login", nil, req)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.do(ctx, "register", http.MethodPost, "/user/register", nil, req)
	return err
}

func (c *Client) Categories(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "categories", "/category", nil)
}

func (c *Client) CreateCategory(ctx context.Context, req CreateCategoryRequest) error {
	_, err := c.do(ctx, "create category", http.MethodPost, "/category", nil, req)
	return err
}

func (c *Client) SubCategories(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "subcategories", "/subCategory", nil)
}

func (c *Client) SubCategoriesByCategory(ctx context.Context, categoryID string) (json.RawMessage, error) {
	return c.get(ctx, "subcategories by category", "/subCategory/"+url.PathEscape(categoryID), nil)
}

func (c *Client) CreateSubCategory(ctx context.Context, req CreateSubCategoryRequest) error {
	_, err := c.do(ctx, "create subcategory", http.MethodPost, "/subCategory", nil, req)
	return err
}

func (c *Client) Products(ctx context.Context, query ProductQuery) (json.RawMessage, error) {
	return c.get(ctx, "products", "/product", query.Values())
}

func (c *Client) ProductByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "product by id", "/product/"+url.PathEscape(id), nil)
}

func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) error {
	_, err := c.do(ctx, "create product", http.MethodPost, "/product", nil, req)
	return err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req CreateProductRequest) error {
	_, err := c.do(ctx, "update product", http.MethodPut, "/product/"+url.PathEscape(id), nil, req)
	return err
}

func (c *Client) WishlistByUser(ctx context.Context, userID string) (json.RawMessage, error) {
	return c.get(ctx, "wishlist", "/wishlist/"+url.PathEscape(userID), nil)
}

func (c *Client) AddToWishlist(ctx context.Context, userID, productID string) error {
	_, err := c.do(ctx, "add to wishlist", http.MethodPost, "/wishlist", nil, addWishlistRequest{
		UserID:    userID,
		ProductID: productID,
	})
	return err
}

func (c *Client) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	_, err := c.do(ctx, "remove from wishlist", http.MethodDelete,
		"/wishlist/"+url.PathEscape(userID)+"/"+url.PathEscape(productID), nil, nil)
	return err
}
