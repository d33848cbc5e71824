package sync

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

// items failing this many drains are dropped with an error report
const maxDrainAttempts = 5

type (
	// HandlerFunc replays one queued payload against its backend.
	HandlerFunc func(ctx context.Context, payload []byte) error

	// SyncStateStore persists the last successful drain time.
	SyncStateStore interface {
		LastSyncTime(ctx context.Context) (time.Time, error)
		SetLastSyncTime(ctx context.Context, t time.Time) error
	}

	// AutoSync periodically drains the outbox in FIFO order through the
	// registered kind handlers.
	AutoSync struct {
		outbox   core.Outbox
		state    SyncStateStore
		interval time.Duration
		log      core.Logger

		mu       sync.Mutex // one drain at a time
		handlers map[string]HandlerFunc
	}
)

func NewAutoSync(outbox core.Outbox, state SyncStateStore, interval time.Duration, log core.Logger) *AutoSync {
	return &AutoSync{
		outbox:   outbox,
		state:    state,
		interval: interval,
		log:      log,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register installs the drain handler for an outbox kind. Not safe to call
// after Start.
func (s *AutoSync) Register(kind string, fn HandlerFunc) {
	s.handlers[kind] = fn
}

func (s *AutoSync) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.SyncNow(ctx); err != nil && !core.IsUnavailable(err) {
					s.log.Error("sync drain failed", err)
				}
			}
		}
	}()
}

// SyncNow drains pending items oldest-first. An unreachable backend stops the
// drain (order is preserved, the remainder waits for the next tick); any
// other failure counts an attempt against the item, dropping it once it
// exhausts maxDrainAttempts.
func (s *AutoSync) SyncNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.outbox.Pending(ctx)
	if err != nil {
		return errors.Wrap(err, "reading outbox")
	}

	for _, item := range items {
		handler, ok := s.handlers[item.Kind]
		if !ok {
			s.log.Error("no sync handler for outbox kind; dropping item",
				map[string]interface{}{"kind": item.Kind, "id": item.ID})
			_ = s.outbox.Delete(ctx, item.ID)
			continue
		}

		if err = handler(ctx, item.Payload); err != nil {
			if core.IsUnavailable(err) {
				return errors.Wrap(err, "draining outbox")
			}
			if markErr := s.outbox.MarkAttempt(ctx, item.ID); markErr != nil {
				s.log.Error("marking outbox attempt", markErr)
			}
			if item.Attempts+1 >= maxDrainAttempts {
				s.log.Error("outbox item exhausted retries; dropping",
					errors.Wrapf(err, "replaying %s %s", item.Kind, item.ID))
				_ = s.outbox.Delete(ctx, item.ID)
			}
			continue
		}
		if err = s.outbox.Delete(ctx, item.ID); err != nil {
			return errors.Wrap(err, "removing drained item")
		}
	}

	if err = s.state.SetLastSyncTime(ctx, time.Now().UTC()); err != nil {
		return errors.Wrap(err, "recording sync time")
	}
	return nil
}

// PendingCount reports the number of queued local changes.
func (s *AutoSync) PendingCount(ctx context.Context) (int, error) {
	return s.outbox.Count(ctx)
}

// LastSyncTime reports when the outbox last drained fully.
func (s *AutoSync) LastSyncTime(ctx context.Context) (time.Time, error) {
	return s.state.LastSyncTime(ctx)
}
