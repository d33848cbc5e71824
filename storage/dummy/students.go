package dummygw

import (
	"context"
	"sync"

	"github.com/heronix/teacherdesk/core/schedule"
	"github.com/heronix/teacherdesk/core/student"
)

// StudentRepository is the in-memory stand-in for the local roster cache.
type StudentRepository struct {
	mu       sync.RWMutex
	students []student.Student
}

var _ student.Repository = (*StudentRepository)(nil)

func NewStudentRepository(seed ...student.Student) *StudentRepository {
	return &StudentRepository{students: seed}
}

func (repo *StudentRepository) QueryStudents(_ context.Context) ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	students := make([]student.Student, len(repo.students))
	copy(students, repo.students)
	return students, nil
}

func (repo *StudentRepository) ReplaceStudents(_ context.Context, students []student.Student) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.students = make([]student.Student, len(students))
	copy(repo.students, students)
	return nil
}

// RosterGateway is the in-memory stand-in for the admin backend's roster and
// schedule endpoints.
type RosterGateway struct {
	mu      sync.RWMutex
	entries []student.RosterEntry
	periods []schedule.Period

	Unavailable bool
}

var (
	_ student.Gateway  = (*RosterGateway)(nil)
	_ schedule.Gateway = (*RosterGateway)(nil)
)

func NewRosterGateway(entries []student.RosterEntry, periods []schedule.Period) *RosterGateway {
	return &RosterGateway{entries: entries, periods: periods}
}

func (gw *RosterGateway) Seed(entries []student.RosterEntry, periods []schedule.Period) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.entries = append(gw.entries, entries...)
	gw.periods = append(gw.periods, periods...)
}

func (gw *RosterGateway) FetchRoster(_ context.Context) ([]student.RosterEntry, error) {
	if gw.Unavailable {
		return nil, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	entries := make([]student.RosterEntry, len(gw.entries))
	copy(entries, gw.entries)
	return entries, nil
}

func (gw *RosterGateway) FetchSchedule(_ context.Context, _ string) ([]schedule.Period, error) {
	if gw.Unavailable {
		return nil, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	periods := make([]schedule.Period, len(gw.periods))
	copy(periods, gw.periods)
	return periods, nil
}
