// Package sync holds the console's background machinery: fixed-interval
// snapshot refreshers, the backend reachability monitor and the outbox drain.
package sync

import (
	"context"
	"sync"
	"time"

	"github.com/heronix/teacherdesk/core"
)

// FetchFunc produces a fresh snapshot.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Refresher re-fetches a full snapshot on a fixed interval and replaces the
// held one wholesale. A failed tick logs and keeps the previous snapshot; the
// ticker never stops on failure. A manual RefreshNow supersedes an in-flight
// fetch by cancelling it, so at most one fetch runs at a time.
type Refresher[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	log      core.Logger

	mu          sync.RWMutex
	snapshot    T
	ok          bool // a snapshot has been taken at least once
	refreshedAt time.Time

	flightMu sync.Mutex
	cancel   context.CancelFunc
}

func NewRefresher[T any](name string, interval time.Duration, fetch FetchFunc[T], log core.Logger) *Refresher[T] {
	return &Refresher[T]{name: name, interval: interval, fetch: fetch, log: log}
}

// Start runs the tick loop until ctx is cancelled. It takes an immediate
// first snapshot so views have data before the first interval elapses.
func (r *Refresher[T]) Start(ctx context.Context) {
	go func() {
		r.RefreshNow(ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RefreshNow(ctx)
			}
		}
	}()
}

// RefreshNow takes a snapshot immediately, cancelling any fetch still in
// flight from a previous tick.
func (r *Refresher[T]) RefreshNow(ctx context.Context) {
	r.flightMu.Lock()
	if r.cancel != nil {
		r.cancel() // supersede the in-flight fetch
	}
	fctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.flightMu.Unlock()
	defer cancel()

	snap, err := r.fetch(fctx)
	if err != nil {
		if fctx.Err() == nil { // superseded fetches fail silently
			r.log.Warn("refresh tick failed; keeping previous snapshot",
				map[string]interface{}{"refresher": r.name, "error": err.Error()})
		}
		return
	}

	r.mu.Lock()
	r.snapshot = snap
	r.ok = true
	r.refreshedAt = time.Now().UTC()
	r.mu.Unlock()
}

// Snapshot returns the last successful snapshot, and false while none has
// been taken yet.
func (r *Refresher[T]) Snapshot() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot, r.ok
}

// RefreshedAt returns when the held snapshot was taken.
func (r *Refresher[T]) RefreshedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refreshedAt
}
