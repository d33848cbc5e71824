// Package localdb is the console's on-disk store: the roster cache, the
// offline credential cache, the outbox of pending writes and the sync state.
// SQLite keeps the desktop install self-contained.
package localdb

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/heronix/teacherdesk/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS student (
	id             TEXT PRIMARY KEY,
	first_name     TEXT NOT NULL,
	last_name      TEXT NOT NULL,
	grade          TEXT NOT NULL DEFAULT '',
	homeroom       TEXT NOT NULL DEFAULT '',
	guardian_name  TEXT NOT NULL DEFAULT '',
	guardian_phone TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS credential (
	employee_id   TEXT PRIMARY KEY,
	password_hash BLOB NOT NULL,
	account       BLOB NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS outbox (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	payload    BLOB NOT NULL,
	attempts   INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outbox_created_at ON outbox(created_at);

CREATE TABLE IF NOT EXISTS sync_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", conf.LocalDB.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "opening local database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "pinging local database")
	}
	// a single writer keeps sqlite happy under concurrent refreshers
	db.SetMaxOpenConns(1)
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return errors.Wrap(err, "migrating local database")
}
