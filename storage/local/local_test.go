package localdb

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/session"
	"github.com/heronix/teacherdesk/core/student"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := &core.Config{LocalDB: core.LocalDBConfig{Path: ":memory:"}}
	db, err := Open(conf)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err = Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(testDB(t))

	students, err := repo.QueryStudents(ctx)
	assert.NoError(t, err)
	assert.Empty(t, students)

	snapshot := []student.Student{
		{ID: "s-2", FirstName: "Noah", LastName: "Zhang", Grade: "7", Homeroom: "7B"},
		{ID: "s-1", FirstName: "Amara", LastName: "Okafor", Grade: "7", Homeroom: "7B",
			GuardianName: "Chidi Okafor", GuardianPhone: "555-0101"},
	}
	assert.NoError(t, repo.ReplaceStudents(ctx, snapshot))

	students, err = repo.QueryStudents(ctx)
	assert.NoError(t, err)
	if assert.Len(t, students, 2) {
		// ordered by last name
		assert.Equal(t, "Okafor", students[0].LastName)
		assert.Equal(t, "Chidi Okafor", students[0].GuardianName)
		assert.Equal(t, "Zhang", students[1].LastName)
	}

	// a replace is a full swap, not a merge
	assert.NoError(t, repo.ReplaceStudents(ctx, []student.Student{
		{ID: "s-3", FirstName: "Mia", LastName: "Alvarez"},
	}))
	students, err = repo.QueryStudents(ctx)
	assert.NoError(t, err)
	if assert.Len(t, students, 1) {
		assert.Equal(t, "s-3", students[0].ID)
	}
}

func TestCredentialRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(testDB(t))

	_, err := repo.GetCredential(ctx, "t1001")
	assert.Equal(t, session.ErrNoCachedCredential, err)

	cred := session.CachedCredential{
		EmployeeID:  "t1001",
		AccountJSON: []byte(`{"name":"Pat Rivera"}`),
		UpdatedAt:   time.Now().UTC(),
	}
	assert.NoError(t, cred.SetPassword("passwd"))
	assert.NoError(t, repo.SaveCredential(ctx, cred))

	got, err := repo.GetCredential(ctx, "t1001")
	assert.NoError(t, err)
	assert.Equal(t, cred.PasswordHash, got.PasswordHash)
	assert.Equal(t, cred.AccountJSON, got.AccountJSON)

	// saving again overwrites the cached hash
	assert.NoError(t, cred.SetPassword("rotated"))
	assert.NoError(t, repo.SaveCredential(ctx, cred))
	got, err = repo.GetCredential(ctx, "t1001")
	assert.NoError(t, err)
	assert.NoError(t, got.CheckPassword("rotated"))
	assert.Error(t, got.CheckPassword("passwd"))
}

func TestOutboxRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOutboxRepository(testDB(t))

	count, err := repo.Count(ctx)
	assert.NoError(t, err)
	assert.Zero(t, count)

	base := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	first := core.OutboxItem{ID: "i-1", Kind: core.OutboxDisciplineIncident, Payload: []byte(`{"n":1}`), CreatedAt: base}
	second := core.OutboxItem{ID: "i-2", Kind: core.OutboxDisciplineIncident, Payload: []byte(`{"n":2}`), CreatedAt: base.Add(time.Minute)}
	assert.NoError(t, repo.Enqueue(ctx, second))
	assert.NoError(t, repo.Enqueue(ctx, first))

	items, err := repo.Pending(ctx)
	assert.NoError(t, err)
	if assert.Len(t, items, 2) {
		// oldest first
		assert.Equal(t, "i-1", items[0].ID)
		assert.Equal(t, "i-2", items[1].ID)
	}

	assert.NoError(t, repo.MarkAttempt(ctx, "i-1"))
	assert.NoError(t, repo.MarkAttempt(ctx, "i-1"))
	items, err = repo.Pending(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, items[0].Attempts)
	assert.Zero(t, items[1].Attempts)

	assert.NoError(t, repo.Delete(ctx, "i-1"))
	count, err = repo.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncStateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSyncStateRepository(testDB(t))

	last, err := repo.LastSyncTime(ctx)
	assert.NoError(t, err)
	assert.True(t, last.IsZero())

	at := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	assert.NoError(t, repo.SetLastSyncTime(ctx, at))
	last, err = repo.LastSyncTime(ctx)
	assert.NoError(t, err)
	assert.True(t, at.Equal(last))

	// overwrite keeps a single row
	assert.NoError(t, repo.SetLastSyncTime(ctx, at.Add(time.Hour)))
	last, err = repo.LastSyncTime(ctx)
	assert.NoError(t, err)
	assert.True(t, at.Add(time.Hour).Equal(last))
}
