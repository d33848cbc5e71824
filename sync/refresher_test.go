package sync

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/heronix/teacherdesk/core"
)

func Test_Refresher_RefreshNow(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}
	r := NewRefresher("test board", time.Minute, fetch, core.NopLogger{})

	_, ok := r.Snapshot()
	assert.False(t, ok) // nothing taken yet
	assert.True(t, r.RefreshedAt().IsZero())

	r.RefreshNow(context.Background())

	snap, ok := r.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, snap)
	assert.Equal(t, 1, calls)
	assert.False(t, r.RefreshedAt().IsZero())
}

func Test_Refresher_failedTickKeepsSnapshot(t *testing.T) {
	fail := false
	fetch := func(_ context.Context) (int, error) {
		if fail {
			return 0, errors.New("boom")
		}
		return 42, nil
	}
	r := NewRefresher("counter", time.Minute, fetch, core.NopLogger{})
	ctx := context.Background()

	r.RefreshNow(ctx)
	taken := r.RefreshedAt()

	fail = true
	r.RefreshNow(ctx)

	snap, ok := r.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, 42, snap) // previous snapshot survives the failure
	assert.Equal(t, taken, r.RefreshedAt())
}

func Test_Refresher_supersededFetchCancelled(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	first := true
	fetch := func(ctx context.Context) (string, error) {
		if first {
			first = false
			close(started)
			<-release
			return "stale", ctx.Err()
		}
		return "fresh", nil
	}
	r := NewRefresher("board", time.Minute, fetch, core.NopLogger{})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		r.RefreshNow(ctx)
		close(done)
	}()
	<-started

	// the second refresh cancels the fetch still in flight
	go func() {
		r.RefreshNow(ctx)
		close(release)
	}()

	<-done
	snap, ok := r.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, "fresh", snap)
}
