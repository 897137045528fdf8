package transaction

import "context"

// Publisher emits ledger events after successful writes. Implementations
// must not fail the originating request: delivery is best-effort.
type Publisher interface {
	TransactionCreated(ctx context.Context, tx *Transaction)
	TransactionStatusChanged(ctx context.Context, tx *Transaction, previous Status)
}

// NopPublisher discards all events. Used when eventing is not configured.
type NopPublisher struct{}

func (NopPublisher) TransactionCreated(context.Context, *Transaction) {}

func (NopPublisher) TransactionStatusChanged(context.Context, *Transaction, Status) {}
