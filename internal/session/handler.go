package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"seclob/internal/api"
)

// Server exposes login, registration and signout over the routing shell.
type Server struct {
	store  *Store
	client authClient
}

func NewServer(store *Store, client authClient) *Server {
	return &Server{store: store, client: client}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/me", s.handleMe)
}

type credentials struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityView struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func viewOf(identity Identity) identityView {
	return identityView{
		ID:       identity.ID,
		UserName: identity.UserName,
		Email:    identity.Email,
		Role:     identity.Role,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	identity, message, err := s.store.Login(r.Context(), s.client, creds.Email, creds.Password)
	if err != nil {
		writeLoginError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, struct {
		Message string       `json:"message,omitempty"`
		User    identityView `json:"user"`
	}{Message: message, User: viewOf(*identity)})
}

func writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *ValidationError
	if errors.As(err, &invalid) {
		http.Error(w, invalid.Message, http.StatusBadRequest)
		return
	}
	var status *api.StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusUnauthorized {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	slog.ErrorContext(r.Context(), "login failed", "error", err)
	http.Error(w, "login failed", http.StatusBadGateway)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.store.Register(r.Context(), s.client, creds.UserName, creds.Email, creds.Password); err != nil {
		var invalid *ValidationError
		if errors.As(err, &invalid) {
			http.Error(w, invalid.Message, http.StatusBadRequest)
			return
		}
		slog.ErrorContext(r.Context(), "registration failed", "error", err)
		http.Error(w, "registration failed", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := s.store.Current()
	if identity == nil {
		http.Error(w, "not signed in", http.StatusUnauthorized)
		return
	}
	writeJSON(r.Context(), w, viewOf(*identity))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}
