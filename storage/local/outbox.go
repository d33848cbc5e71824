package localdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

type outboxRepository struct {
	db *sqlx.DB
}

var _ core.Outbox = (*outboxRepository)(nil)

func NewOutboxRepository(db *sqlx.DB) *outboxRepository {
	return &outboxRepository{db: db}
}

func (repo *outboxRepository) Enqueue(ctx context.Context, item core.OutboxItem) error {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO outbox (id, kind, payload, attempts, created_at)
		 VALUES (:id, :kind, :payload, :attempts, :created_at)`, item)
	return errors.Wrap(err, "queueing outbox item")
}

func (repo *outboxRepository) Pending(ctx context.Context) ([]core.OutboxItem, error) {
	var items []core.OutboxItem
	err := repo.db.SelectContext(ctx, &items,
		`SELECT id, kind, payload, attempts, created_at FROM outbox ORDER BY created_at`)
	return items, errors.Wrap(err, "querying outbox")
}

func (repo *outboxRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM outbox`)
	return count, errors.Wrap(err, "counting outbox")
}

func (repo *outboxRepository) MarkAttempt(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `UPDATE outbox SET attempts = attempts + 1 WHERE id = ?`, id)
	return errors.Wrap(err, "marking outbox attempt")
}

func (repo *outboxRepository) Delete(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id)
	return errors.Wrap(err, "deleting outbox item")
}

// sync state

const lastSyncKey = "last_sync_at"

type syncStateRepository struct {
	db *sqlx.DB
}

func NewSyncStateRepository(db *sqlx.DB) *syncStateRepository {
	return &syncStateRepository{db: db}
}

func (repo *syncStateRepository) LastSyncTime(ctx context.Context) (time.Time, error) {
	var value string
	err := repo.db.GetContext(ctx, &value, `SELECT value FROM sync_state WHERE key = ?`, lastSyncKey)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.Wrap(err, "loading sync state")
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	return t, errors.Wrap(err, "parsing sync state")
}

func (repo *syncStateRepository) SetLastSyncTime(ctx context.Context, t time.Time) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO sync_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastSyncKey, t.UTC().Format(time.RFC3339Nano))
	return errors.Wrap(err, "saving sync state")
}
