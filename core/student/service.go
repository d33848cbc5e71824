package student

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

var ErrEmptyRoster = errors.New("roster unavailable: local cache empty and backend unreachable")

type (
	// Repository is the local roster cache.
	Repository interface {
		QueryStudents(ctx context.Context) ([]Student, error)
		ReplaceStudents(ctx context.Context, students []Student) error
	}

	// Gateway fetches the roster from the admin backend.
	Gateway interface {
		FetchRoster(ctx context.Context) ([]RosterEntry, error)
	}

	// Service reads local-first: the cache is tried before the backend, and a
	// fallback fetch is mapped into the local shape but held in memory only —
	// it is never written back to the cache.
	Service struct {
		repo Repository
		gw   Gateway
		log  core.Logger

		mu       sync.RWMutex
		fallback []Student // session-scoped copy of the last fallback fetch
	}
)

func NewService(repo Repository, gw Gateway, log core.Logger) *Service {
	return &Service{repo: repo, gw: gw, log: log}
}

// Roster returns the student roster, local cache first.
func (svc *Service) Roster(ctx context.Context) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		svc.log.Warn("local roster read failed", errors.Wrap(err, "querying cache"))
	}
	if len(students) > 0 {
		return students, nil
	}

	entries, err := svc.gw.FetchRoster(ctx)
	if err != nil {
		// keep whatever the session already fetched rather than going blank
		svc.mu.RLock()
		prev := svc.fallback
		svc.mu.RUnlock()
		if len(prev) > 0 {
			return prev, nil
		}
		if core.IsUnavailable(err) {
			return nil, ErrEmptyRoster
		}
		return nil, errors.Wrap(err, "fetching roster")
	}

	students = make([]Student, 0, len(entries))
	for _, e := range entries {
		students = append(students, e.ToStudent())
	}

	svc.mu.Lock()
	svc.fallback = students
	svc.mu.Unlock()
	return students, nil
}

// Refresh pulls the roster from the backend and replaces the local cache.
// Used by the sync engine, not by reads.
func (svc *Service) Refresh(ctx context.Context) error {
	entries, err := svc.gw.FetchRoster(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching roster")
	}
	students := make([]Student, 0, len(entries))
	for _, e := range entries {
		students = append(students, e.ToStudent())
	}
	return errors.Wrap(svc.repo.ReplaceStudents(ctx, students), "replacing cache")
}

// Search returns roster matches for the query, best first.
func (svc *Service) Search(ctx context.Context, query string) ([]Student, error) {
	students, err := svc.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return rankMatches(students, core.CleanString(query, true /* lower */)), nil
}
