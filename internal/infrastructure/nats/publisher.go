package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"tally/internal/domain/transaction"
)

const (
	subjectCreated       = "transactions.created"
	subjectStatusChanged = "transactions.status_changed"
)

// Publisher emits ledger events to NATS subjects. Delivery is best-effort:
// a publish failure is logged and the request proceeds.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Close() {
	p.conn.Close()
}

type createdEvent struct {
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	UserID        int64     `json:"userId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type statusChangedEvent struct {
	TransactionID  string    `json:"transactionId"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
	UserID         int64     `json:"userId"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func (p *Publisher) TransactionCreated(_ context.Context, tx *transaction.Transaction) {
	p.publish(subjectCreated, createdEvent{
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		Status:        string(tx.Status),
		UserID:        tx.UserID,
		CreatedAt:     tx.CreatedAt,
	})
}

func (p *Publisher) TransactionStatusChanged(_ context.Context, tx *transaction.Transaction, previous transaction.Status) {
	p.publish(subjectStatusChanged, statusChangedEvent{
		TransactionID:  tx.ID,
		PreviousStatus: string(previous),
		Status:         string(tx.Status),
		UserID:         tx.UserID,
		OccurredAt:     time.Now().UTC(),
	})
}

func (p *Publisher) publish(subject string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error encoding %s event: %v", subject, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("Error publishing %s event: %v", subject, err)
	}
}
