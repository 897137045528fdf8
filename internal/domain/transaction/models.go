package transaction

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// ErrNotFound is returned when no transaction matches the given id.
var ErrNotFound = errors.New("transaction not found")

// Status is the lifecycle state of a transaction. Transitions are not
// restricted: any status may be overwritten with any other.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ParseStatus validates a status string received from a client.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusFailed:
		return Status(s), nil
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s)}
}

const (
	MinDescriptionLen = 3
	MaxDescriptionLen = 100
)

// ValidationError reports a rejected field on transaction creation or update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Transaction struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      int64     `json:"userId"`
}

type CreateTransactionParams struct {
	Amount      float64
	Description string
	UserID      int64
}

// Validate checks the client-supplied fields. Description length is counted
// in characters, not bytes.
func (p CreateTransactionParams) Validate() error {
	if p.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	if n := utf8.RuneCountInString(p.Description); n < MinDescriptionLen || n > MaxDescriptionLen {
		return &ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("must be between %d and %d characters", MinDescriptionLen, MaxDescriptionLen),
		}
	}
	return nil
}
