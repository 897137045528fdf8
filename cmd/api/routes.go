package main

import (
	"log"
	"net/http"

	httphandlers "tally/internal/interfaces/http"
	"tally/internal/shared/config"
	"tally/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", httphandlers.HandleHealth)
	mux.HandleFunc("GET /test", httphandlers.HandleTest)

	// Public auth routes
	mux.HandleFunc("POST /users", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("POST /token", deps.AuthHandler.HandleToken)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT, deps.UserRepo)

	mux.Handle("GET /users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))
	mux.Handle("POST /transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleCreateTransaction)))
	mux.Handle("GET /transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleListTransactions)))
	mux.Handle("GET /transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleGetTransaction)))
	mux.Handle("PUT /transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleUpdateTransaction)))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))

	// Request tracing and metrics when the collector is enabled
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
