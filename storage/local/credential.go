package localdb

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core/session"
)

type credentialRepository struct {
	db *sqlx.DB
}

var _ session.CredentialStore = (*credentialRepository)(nil)

func NewCredentialRepository(db *sqlx.DB) *credentialRepository {
	return &credentialRepository{db: db}
}

func (repo *credentialRepository) SaveCredential(ctx context.Context, cred session.CachedCredential) error {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO credential (employee_id, password_hash, account, updated_at)
		 VALUES (:employee_id, :password_hash, :account, :updated_at)
		 ON CONFLICT(employee_id) DO UPDATE SET
			password_hash = excluded.password_hash,
			account = excluded.account,
			updated_at = excluded.updated_at`, cred)
	return errors.Wrap(err, "saving credential")
}

func (repo *credentialRepository) GetCredential(ctx context.Context, employeeID string) (session.CachedCredential, error) {
	var cred session.CachedCredential
	err := repo.db.GetContext(ctx, &cred,
		`SELECT employee_id, password_hash, account, updated_at FROM credential WHERE employee_id = ?`, employeeID)
	if err == sql.ErrNoRows {
		return session.CachedCredential{}, session.ErrNoCachedCredential
	}
	return cred, errors.Wrap(err, "loading credential")
}
