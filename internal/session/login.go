package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"seclob/internal/api"
)

type authClient interface {
	Login(ctx context.Context, req api.LoginRequest) (json.RawMessage, error)
	Register(ctx context.Context, req api.RegisterRequest) error
}

// ValidationError is a field-local form failure; it blocks submission
// before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Message: "enter a valid email"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}

// Login authenticates against the backend and installs the identity. The
// returned message is the backend's greeting when it sent one.
func (s *Store) Login(ctx context.Context, client authClient, email, password string) (*Identity, string, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, "", err
	}

	raw, err := client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	identity, message, err := ParseLoginResponse(raw)
	if err != nil {
		return nil, "", err
	}
	if err := s.set(ctx, identity); err != nil {
		return nil, "", err
	}
	return &identity, message, nil
}

// Register creates an account. The backend signs nobody in on register;
// the caller goes through Login afterwards.
func (s *Store) Register(ctx context.Context, client authClient, userName, email, password string) error {
	if strings.TrimSpace(userName) == "" {
		return &ValidationError{Field: "userName", Message: "user name is required"}
	}
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	if err := client.Register(ctx, api.RegisterRequest{
		UserName: userName,
		Email:    email,
		Password: password,
		Role:     "user",
	}); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

type loginUser struct {
	MongoID  string `json:"_id"`
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func (u loginUser) identity() Identity {
	id := u.ID
	if id == "" {
		id = u.MongoID
	}
	return Identity{
		ID:       id,
		UserName: u.UserName,
		Email:    u.Email,
		Role:     u.Role,
		Token:    u.Token,
	}
}

// ParseLoginResponse accepts both login response shapes the backend uses:
// a [messageObject, userObject] array and a flat user object. Anything
// without a token is an invalid response.
func ParseLoginResponse(raw json.RawMessage) (Identity, string, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err == nil {
		if len(parts) < 2 {
			return Identity{}, "", fmt.Errorf("login response array has %d elements, expected 2", len(parts))
		}
		var header struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(parts[0], &header)
		var user loginUser
		if err := json.Unmarshal(parts[1], &user); err != nil || user.Token == "" {
			return Identity{}, "", fmt.Errorf("invalid user data in login response")
		}
		return user.identity(), header.Message, nil
	}

	var user loginUser
	if err := json.Unmarshal(raw, &user); err != nil || user.Token == "" {
		return Identity{}, "", fmt.Errorf("invalid login response format")
	}
	return user.identity(), "", nil
}
