package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"seclob/internal/api"
)

// Server exposes the wishlist panel over the routing shell.
type Server struct {
	panel *Panel
}

func NewServer(panel *Panel) *Server {
	return &Server{panel: panel}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /wishlist", s.handleList)
	mux.HandleFunc("POST /wishlist", s.handleAdd)
	mux.HandleFunc("DELETE /wishlist/{productId}", s.handleRemove)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if err := s.panel.Open(r.Context()); err != nil {
		writeWishlistError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, struct {
		Items []ItemView `json:"items"`
	}{Items: s.panel.Items()})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}
	if err := s.panel.Add(r.Context(), req.ProductID); err != nil {
		writeWishlistError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, struct {
		Items []ItemView `json:"items"`
	}{Items: s.panel.Items()})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if err := s.panel.Remove(r.Context(), productID); err != nil {
		writeWishlistError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, struct {
		Items []ItemView `json:"items"`
	}{Items: s.panel.Items()})
}

func writeWishlistError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotSignedIn) || api.Unauthorized(err) {
		http.Error(w, ErrNotSignedIn.Error(), http.StatusUnauthorized)
		return
	}
	slog.ErrorContext(r.Context(), "wishlist request failed", "error", err)
	http.Error(w, "could not load wishlist", http.StatusBadGateway)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}
