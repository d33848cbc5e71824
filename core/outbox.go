package core

import (
	"context"
	"time"
)

// Outbox item kinds.
const (
	OutboxDisciplineIncident = "discipline.incident"
	OutboxPollResponse       = "poll.response"
)

type (
	// OutboxItem is a write that could not reach its backend and is held
	// locally until the next sync drain. Payload is the JSON encoding of the
	// original request.
	OutboxItem struct {
		ID        string    `db:"id" json:"id"`
		Kind      string    `db:"kind" json:"kind"`
		Payload   []byte    `db:"payload" json:"payload"`
		Attempts  int       `db:"attempts" json:"attempts"`
		CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
	}

	// Outbox is the local queue of pending writes, drained in FIFO order.
	Outbox interface {
		Enqueue(ctx context.Context, item OutboxItem) error
		Pending(ctx context.Context) ([]OutboxItem, error)
		Count(ctx context.Context) (int, error)
		MarkAttempt(ctx context.Context, id string) error
		Delete(ctx context.Context, id string) error
	}
)
