package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tally/internal/domain/user"
	"tally/internal/shared/auth"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc        func(ctx context.Context, params user.CreateUserParams) (*user.User, error)
	GetByIDFunc       func(ctx context.Context, id int64) (*user.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*user.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrNotFound
}

func TestHandleRegister(t *testing.T) {
	repo := &MockUserRepo{
		CreateFunc: func(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
			if params.PasswordHash == "testpassword" {
				t.Error("Create() received plaintext password as hash")
			}
			return &user.User{
				ID:           1,
				Username:     params.Username,
				Email:        params.Email,
				PasswordHash: params.PasswordHash,
			}, nil
		},
	}
	handler := NewAuthHandler(repo, auth.NewJWT("test-secret", 0))

	body, _ := json.Marshal(RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "testpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.HandleRegister(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("register status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var got user.User
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Username != "testuser" {
		t.Errorf("username = %q, want testuser", got.Username)
	}
	if got.ID == 0 {
		t.Error("response has no id")
	}
	if strings.Contains(rr.Body.String(), "testpassword") {
		t.Error("response leaks the password")
	}
	if strings.Contains(rr.Body.String(), "password_hash") || strings.Contains(rr.Body.String(), "passwordHash") {
		t.Error("response leaks the password hash")
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	repo := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{ID: 1, Email: email}, nil
		},
	}
	handler := NewAuthHandler(repo, auth.NewJWT("test-secret", 0))

	body, _ := json.Marshal(RegisterRequest{
		Username: "other",
		Email:    "taken@example.com",
		Password: "pw",
	})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.HandleRegister(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("register status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHandleRegister_MissingFields(t *testing.T) {
	handler := NewAuthHandler(&MockUserRepo{}, auth.NewJWT("test-secret", 0))

	body, _ := json.Marshal(RegisterRequest{Username: "x"})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.HandleRegister(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("register status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHandleToken(t *testing.T) {
	hash, _ := auth.HashPassword("testpassword")
	repo := &MockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*user.User, error) {
			if username != "testuser" {
				return nil, user.ErrNotFound
			}
			return &user.User{ID: 1, Username: "testuser", PasswordHash: hash}, nil
		},
	}
	jwt := auth.NewJWT("test-secret", 0)
	handler := NewAuthHandler(repo, jwt)

	form := url.Values{"username": {"testuser"}, "password": {"testpassword"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	handler.HandleToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("token status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp TokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}

	// Issued token resolves back to the same subject
	claims, err := jwt.Validate(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Username() != "testuser" {
		t.Errorf("token subject = %q, want testuser", claims.Username())
	}
}

func TestHandleToken_BadCredentials(t *testing.T) {
	hash, _ := auth.HashPassword("rightpassword")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "testuser", "wrongpassword"},
		{"unknown user", "ghost", "whatever"},
		{"empty credentials", "", ""},
	}

	repo := &MockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*user.User, error) {
			if username != "testuser" {
				return nil, user.ErrNotFound
			}
			return &user.User{ID: 1, Username: "testuser", PasswordHash: hash}, nil
		},
	}
	handler := NewAuthHandler(repo, auth.NewJWT("test-secret", 0))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"username": {tt.username}, "password": {tt.password}}
			req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := httptest.NewRecorder()

			handler.HandleToken(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("token status = %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			if got := rr.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Errorf("WWW-Authenticate = %q, want Bearer", got)
			}
		})
	}
}
