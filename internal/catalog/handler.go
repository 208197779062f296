package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"seclob/internal/api"
	"seclob/internal/normalize"
)

type productGetter interface {
	ProductByID(ctx context.Context, id string) (json.RawMessage, error)
}

type adminClient interface {
	SubCategories(ctx context.Context) (json.RawMessage, error)
	CreateCategory(ctx context.Context, req api.CreateCategoryRequest) error
	CreateSubCategory(ctx context.Context, req api.CreateSubCategoryRequest) error
	CreateProduct(ctx context.Context, req api.CreateProductRequest) error
	UpdateProduct(ctx context.Context, id string, req api.CreateProductRequest) error
}

type roleChecker interface {
	IsAdmin() bool
}

// Server exposes the catalog state machines over the routing shell. The
// catalog route's query string is the canonical mirror of the filter
// state, so search links are shareable and history navigation works.
type Server struct {
	tree     *Tree
	feed     *Feed
	products productGetter
	admin    adminClient
	session  roleChecker
	pageSize int
}

func NewServer(tree *Tree, feed *Feed, products productGetter, admin adminClient, session roleChecker, pageSize int) *Server {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Server{
		tree:     tree,
		feed:     feed,
		products: products,
		admin:    admin,
		session:  session,
		pageSize: pageSize,
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /catalog", s.handleCatalog)
	mux.HandleFunc("GET /catalog/sidebar", s.handleSidebar)
	mux.HandleFunc("POST /catalog/search", s.handleSearch)
	mux.HandleFunc("POST /catalog/select/category", s.handleSelectCategory)
	mux.HandleFunc("POST /catalog/select/subcategory", s.handleSelectSubCategory)
	mux.HandleFunc("POST /catalog/page", s.handlePage)
	mux.HandleFunc("POST /catalog/retry", s.handleRetry)
	mux.HandleFunc("GET /product/{id}", s.handleProduct)
	mux.HandleFunc("POST /admin/category", s.handleCreateCategory)
	mux.HandleFunc("GET /admin/subcategories", s.handleListSubCategories)
	mux.HandleFunc("POST /admin/subcategory", s.handleCreateSubCategory)
	mux.HandleFunc("POST /admin/product", s.handleCreateProduct)
	mux.HandleFunc("PUT /admin/product/{id}", s.handleUpdateProduct)
}

type catalogResponse struct {
	URL     string   `json:"url"`
	Feed    FeedView `json:"feed"`
	Search  string   `json:"search"`
	FeedFor string   `json:"subCategory,omitempty"`
}

func (s *Server) catalogResponse() catalogResponse {
	filter := s.feed.Filter()
	return catalogResponse{
		URL:     canonicalURL(filter),
		Feed:    s.feed.View(),
		Search:  filter.Search,
		FeedFor: filter.SubCategoryID,
	}
}

func canonicalURL(filter FilterState) string {
	values := filter.Values()
	if len(values) == 0 {
		return "/catalog"
	}
	return "/catalog?" + values.Encode()
}

// handleCatalog is the URL-to-state half of the mirror: the query string
// is adopted as the filter (back/forward navigation lands here) and the
// canonical URL for the resulting state is echoed back.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	state := FilterFromValues(r.URL.Query(), s.pageSize)
	s.feed.Sync(r.Context(), state)
	writeJSON(r.Context(), w, s.catalogResponse())
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	if err := s.tree.Ready(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "failed to load sidebar", "error", err)
		http.Error(w, "could not load categories", http.StatusBadGateway)
		return
	}
	writeJSON(r.Context(), w, struct {
		Categories []CategoryNode `json:"categories"`
	}{Categories: s.tree.Render()})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.FormValue("q"))
	s.feed.SetSearch(r.Context(), query)
	writeJSON(r.Context(), w, s.catalogResponse())
}

func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if name == "" {
		http.Error(w, "category name is required", http.StatusBadRequest)
		return
	}
	s.tree.SelectCategory(r.Context(), name)
	writeJSON(r.Context(), w, s.catalogResponse())
}

func (s *Server) handleSelectSubCategory(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	if id == "" {
		http.Error(w, "subcategory id is required", http.StatusBadRequest)
		return
	}
	s.tree.SelectSubCategory(r.Context(), r.FormValue("name"), id)
	writeJSON(r.Context(), w, s.catalogResponse())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.FormValue("page"))
	if page < 1 {
		http.Error(w, "page must be a positive number", http.StatusBadRequest)
		return
	}
	size, _ := strconv.Atoi(r.FormValue("limit"))
	s.feed.SetPage(r.Context(), page, size)
	writeJSON(r.Context(), w, s.catalogResponse())
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.feed.Retry(r.Context())
	writeJSON(r.Context(), w, s.catalogResponse())
}

// productView is the detail page's shape: price and stock resolve through
// the first variant, images through the shared image rule.
type productView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	Stock       int                 `json:"stock"`
	ImageURL    string              `json:"imageUrl"`
	Variants    []normalize.Variant `json:"variants,omitempty"`
	RAMOptions  []string            `json:"ramOptions,omitempty"`
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	raw, err := s.products.ProductByID(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load product", "id", id, "error", err)
		http.Error(w, "could not load product", http.StatusBadGateway)
		return
	}
	product, ok := normalize.SingleProduct(raw)
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	view := productView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.DisplayPrice(),
		Stock:       product.DisplayStock(),
		ImageURL:    product.ImageURL(),
		Variants:    product.Variants,
	}
	for _, variant := range product.Variants {
		view.RAMOptions = append(view.RAMOptions, variant.RAM)
	}
	writeJSON(r.Context(), w, view)
}

// requireAdmin enforces the client-side admin gate on the create forms.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.session.IsAdmin() {
		return true
	}
	http.Error(w, "admin only", http.StatusForbidden)
	return false
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req api.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "category name is required", http.StatusBadRequest)
		return
	}
	if err := s.admin.CreateCategory(r.Context(), req); err != nil {
		slog.ErrorContext(r.Context(), "failed to create category", "error", err)
		http.Error(w, "failed to add category", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// handleListSubCategories feeds the product form's subcategory picker,
// which spans every category.
func (s *Server) handleListSubCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	raw, err := s.admin.SubCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list subcategories", "error", err)
		http.Error(w, "could not load sub categories", http.StatusBadGateway)
		return
	}
	writeJSON(r.Context(), w, struct {
		SubCategories []normalize.SubCategory `json:"subCategories"`
	}{SubCategories: normalize.SubCategories(r.Context(), raw)})
}

func (s *Server) handleCreateSubCategory(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req api.CreateSubCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.CategoryID == "" {
		http.Error(w, "subcategory name and categoryId are required", http.StatusBadRequest)
		return
	}
	if err := s.admin.CreateSubCategory(r.Context(), req); err != nil {
		slog.ErrorContext(r.Context(), "failed to create subcategory", "error", err)
		http.Error(w, "failed to add sub category", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req api.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.SubCategoryID == "" || len(req.Variants) == 0 {
		http.Error(w, "product name, subCategoryId and at least one variant are required", http.StatusBadRequest)
		return
	}
	if err := s.admin.CreateProduct(r.Context(), req); err != nil {
		slog.ErrorContext(r.Context(), "failed to create product", "error", err)
		http.Error(w, "failed to add product", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req api.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.SubCategoryID == "" || len(req.Variants) == 0 {
		http.Error(w, "product name, subCategoryId and at least one variant are required", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	if err := s.admin.UpdateProduct(r.Context(), id, req); err != nil {
		slog.ErrorContext(r.Context(), "failed to update product", "id", id, "error", err)
		http.Error(w, "failed to update product", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}
