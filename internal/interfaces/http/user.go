package http

import (
	"encoding/json"
	"net/http"

	"tally/internal/shared/middleware"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// HandleMe returns the authenticated user resolved by the auth middleware.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u := middleware.CurrentUser(r.Context())
	if u == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}
