package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit is used when a list request does not specify a limit.
const DefaultListLimit = 100

// Service implements the transaction ledger: validation, id and timestamp
// assignment, and event publication around the repository.
type Service struct {
	repo   Repository
	events Publisher
	now    func() time.Time
}

func NewService(repo Repository, events Publisher) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	return &Service{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

// Create validates the params, assigns a fresh id and a UTC creation
// timestamp, and persists the transaction with status pending.
func (s *Service) Create(ctx context.Context, params CreateTransactionParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:          uuid.NewString(),
		Amount:      params.Amount,
		Description: params.Description,
		Status:      StatusPending,
		CreatedAt:   s.now().UTC(),
		UserID:      params.UserID,
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.events.TransactionCreated(ctx, tx)
	return tx, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByUser returns a page of the user's transactions.
func (s *Service) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

// List returns a page of all transactions regardless of owner.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// UpdateStatus overwrites the status unconditionally. There is no transition
// validation: completed may go back to pending.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Transaction, error) {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if previous.Status != tx.Status {
		s.events.TransactionStatusChanged(ctx, tx, previous.Status)
	}
	return tx, nil
}
