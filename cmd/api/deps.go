package main

import (
	"context"
	"log"

	"tally/internal/domain/transaction"
	"tally/internal/infrastructure/nats"
	"tally/internal/infrastructure/postgres"
	httphandlers "tally/internal/interfaces/http"
	"tally/internal/shared/auth"
	"tally/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	TransactionHandler *httphandlers.TransactionHandler

	// Auth
	JWT      *auth.JWT
	UserRepo *postgres.UserRepository

	events *nats.Publisher
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Event publisher is optional; without NATS_URL events are dropped
	var events *nats.Publisher
	var publisher transaction.Publisher
	if cfg.Events.NATSURL != "" {
		events, err = nats.NewPublisher(cfg.Events.NATSURL)
		if err != nil {
			db.Close()
			return nil, err
		}
		publisher = events
		log.Printf("Publishing ledger events to %s", cfg.Events.NATSURL)
	}

	ledger := transaction.NewService(transactionRepo, publisher)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt)
	userHandler := httphandlers.NewUserHandler()
	transactionHandler := httphandlers.NewTransactionHandler(ledger)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		TransactionHandler: transactionHandler,
		JWT:                jwt,
		UserRepo:           userRepo,
		events:             events,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.events != nil {
		d.events.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
