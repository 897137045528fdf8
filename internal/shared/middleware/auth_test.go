package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tally/internal/domain/user"
	"tally/internal/shared/auth"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	GetByUsernameFunc func(ctx context.Context, username string) (*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func TestAuth(t *testing.T) {
	jwt := auth.NewJWT("test-secret", 0)
	validToken, _ := jwt.Generate("alice")
	wrongSecretToken, _ := auth.NewJWT("other-secret", 0).Generate("alice")
	expiredToken, _ := auth.NewJWT("test-secret", -time.Hour).Generate("alice")

	knownUser := &user.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name           string
		users          *MockUserRepo
		setupRequest   func(r *http.Request)
		expectedStatus int
		expectedUser   bool
	}{
		{
			name:  "valid token in header",
			users: &MockUserRepo{GetByUsernameFunc: func(ctx context.Context, username string) (*user.User, error) { return knownUser, nil }},
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken)
			},
			expectedStatus: http.StatusOK,
			expectedUser:   true,
		},
		{
			name:  "valid token in cookie",
			users: &MockUserRepo{GetByUsernameFunc: func(ctx context.Context, username string) (*user.User, error) { return knownUser, nil }},
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: validToken})
			},
			expectedStatus: http.StatusOK,
			expectedUser:   true,
		},
		{
			name:           "no token",
			users:          &MockUserRepo{},
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "malformed header",
			users: &MockUserRepo{},
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Token "+validToken)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "wrong secret",
			users: &MockUserRepo{},
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+wrongSecretToken)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "expired token",
			users: &MockUserRepo{},
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+expiredToken)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "unknown subject",
			users: &MockUserRepo{},
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "disabled account",
			users: &MockUserRepo{GetByUsernameFunc: func(ctx context.Context, username string) (*user.User, error) {
				return &user.User{ID: 2, Username: "alice", Disabled: true}, nil
			}},
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u := CurrentUser(r.Context())
				if u == nil && tt.expectedUser {
					t.Error("Expected user in context, got none")
				}
				if u != nil && !tt.expectedUser {
					t.Error("Unexpected user in context")
				}
				if u != nil && u.Username != "alice" {
					t.Errorf("Expected user alice, got %s", u.Username)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Auth(jwt, tt.users)(nextHandler)

			req := httptest.NewRequest("GET", "/", nil)
			tt.setupRequest(req)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				if got := rr.Header().Get("WWW-Authenticate"); got != "Bearer" {
					t.Errorf("WWW-Authenticate = %q, want Bearer", got)
				}
			}
		})
	}
}
