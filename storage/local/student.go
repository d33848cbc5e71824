package localdb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) QueryStudents(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	err := repo.db.SelectContext(ctx, &students,
		`SELECT id, first_name, last_name, grade, homeroom, guardian_name, guardian_phone
		 FROM student ORDER BY last_name, first_name`)
	return students, errors.Wrap(err, "querying cached roster")
}

// ReplaceStudents swaps the whole cache for the given snapshot.
func (repo *studentRepository) ReplaceStudents(ctx context.Context, students []student.Student) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM student`); err != nil {
		return errors.Wrap(err, "clearing roster cache")
	}
	for _, s := range students {
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO student (id, first_name, last_name, grade, homeroom, guardian_name, guardian_phone)
			 VALUES (:id, :first_name, :last_name, :grade, :homeroom, :guardian_name, :guardian_phone)`, s)
		if err != nil {
			return errors.Wrap(err, "inserting student")
		}
	}
	return errors.Wrap(tx.Commit(), "committing roster cache")
}
