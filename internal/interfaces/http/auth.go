package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tally/internal/domain/user"
	"tally/internal/shared/auth"
)

type AuthHandler struct {
	users user.Repository
	jwt   *auth.JWT
}

func NewAuthHandler(users user.Repository, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HandleRegister creates a new user account
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding register request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "username, email, and password are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Duplicate email check up front; the unique constraint still backstops
	// concurrent registrations.
	if _, err := h.users.GetByEmail(ctx, req.Email); err == nil {
		http.Error(w, "Email already registered", http.StatusBadRequest)
		return
	} else if !errors.Is(err, user.ErrNotFound) {
		log.Printf("Error checking email %s: %v", req.Email, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	u, err := h.users.Create(ctx, user.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			http.Error(w, "Email already registered", http.StatusBadRequest)
		case errors.Is(err, user.ErrUsernameTaken):
			http.Error(w, "Username already taken", http.StatusBadRequest)
		default:
			log.Printf("Error creating user: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// HandleToken exchanges username+password form credentials for a bearer token
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		// Same response as a bad password so usernames cannot be probed
		h.rejectCredentials(w)
		return
	}

	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		h.rejectCredentials(w)
		return
	}

	token, err := h.jwt.Generate(u.Username)
	if err != nil {
		log.Printf("Error generating token for user %s: %v", u.Username, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) rejectCredentials(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "Incorrect username or password", http.StatusUnauthorized)
}
