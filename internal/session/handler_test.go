package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seclob/internal/cache"
)

func newAuthServer(t *testing.T, auth *fakeAuth) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore(cache.NewInMemoryCache())
	mux := http.NewServeMux()
	NewServer(store, auth).Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, store
}

func TestLoginRoute_SignsInAndServesIdentity(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{loginResponse: `[{"message":"hi"},{"_id":"u1","userName":"jo","role":"admin","token":"tok"}]`}
	ts, store := newAuthServer(t, auth)

	resp, err := ts.Client().Post(ts.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"jo@x.com","password":"pw"}`))
	if err != nil {
		t.Fatalf("post login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d", resp.StatusCode)
	}
	var body struct {
		Message string       `json:"message"`
		User    identityView `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if body.Message != "hi" || body.User.ID != "u1" {
		t.Fatalf("unexpected login body: %+v", body)
	}
	if !store.IsAdmin() {
		t.Fatal("login should install the identity")
	}

	me, err := ts.Client().Get(ts.URL + "/auth/me")
	if err != nil {
		t.Fatalf("get me: %v", err)
	}
	me.Body.Close()
	if me.StatusCode != http.StatusOK {
		t.Fatalf("me status %d", me.StatusCode)
	}
}

func TestLoginRoute_ValidationFailureIs400(t *testing.T) {
	t.Parallel()

	ts, _ := newAuthServer(t, &fakeAuth{})

	resp, err := ts.Client().Post(ts.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"","password":"pw"}`))
	if err != nil {
		t.Fatalf("post login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogoutRoute_ClearsSession(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{loginResponse: `{"_id":"u1","token":"tok"}`}
	ts, store := newAuthServer(t, auth)
	if _, _, err := store.Login(t.Context(), auth, "jo@x.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := ts.Client().Post(ts.URL+"/auth/logout", "", nil)
	if err != nil {
		t.Fatalf("post logout: %v", err)
	}
	resp.Body.Close()
	if store.Current() != nil {
		t.Fatal("logout should clear the session")
	}

	me, err := ts.Client().Get(ts.URL + "/auth/me")
	if err != nil {
		t.Fatalf("get me: %v", err)
	}
	me.Body.Close()
	if me.StatusCode != http.StatusUnauthorized {
		t.Fatalf("signed-out me should be 401, got %d", me.StatusCode)
	}
}
