package connectivity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"oceanwatch/internal/logging"

	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// flipProber returns the errors queued in errs, then keeps returning the
// last one.
type flipProber struct {
	mu   sync.Mutex
	errs []error
}

func (p *flipProber) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.errs) == 0 {
		return nil
	}
	err := p.errs[0]
	if len(p.errs) > 1 {
		p.errs = p.errs[1:]
	}
	return err
}

func TestWatcher_StartsOffline(t *testing.T) {
	w := NewWatcher(&flipProber{errs: []error{errors.New("down")}}, time.Minute, testLogger())
	require.Equal(t, Offline, w.Status())
}

func TestCheckNow_TransitionsOnEdgeOnly(t *testing.T) {
	down := errors.New("down")
	p := &flipProber{errs: []error{down, down, nil, nil, down}}
	w := NewWatcher(p, time.Minute, testLogger())
	events := w.Subscribe()
	ctx := context.Background()

	// Offline probes while already offline publish nothing.
	require.Equal(t, Offline, w.CheckNow(ctx))
	require.Equal(t, Offline, w.CheckNow(ctx))
	require.Empty(t, events)

	// First successful probe is an edge.
	require.Equal(t, Online, w.CheckNow(ctx))
	ev := <-events
	require.Equal(t, Offline, ev.From)
	require.Equal(t, Online, ev.To)

	// Staying online publishes nothing.
	require.Equal(t, Online, w.CheckNow(ctx))
	require.Empty(t, events)

	// Going down again is another edge.
	require.Equal(t, Offline, w.CheckNow(ctx))
	ev = <-events
	require.Equal(t, Online, ev.From)
	require.Equal(t, Offline, ev.To)
}

func TestNewWatcher_ClampsNonpositiveInterval(t *testing.T) {
	w := NewWatcher(&flipProber{}, 0, testLogger())
	require.Equal(t, defaultInterval, w.interval)

	// Run must not panic constructing its ticker.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
}

func TestRun_ProbesImmediately(t *testing.T) {
	p := &flipProber{}
	w := NewWatcher(p, time.Hour, testLogger())
	events := w.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	select {
	case ev := <-events:
		require.Equal(t, Online, ev.To)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate probe on Run")
	}
}

func TestSubscribe_SlowSubscriberDoesNotBlockWatcher(t *testing.T) {
	p := &flipProber{}
	w := NewWatcher(p, time.Minute, testLogger())
	_ = w.Subscribe() // never read
	ctx := context.Background()

	// Flip state more times than the subscriber buffer holds; the watcher
	// must keep going.
	for i := 0; i < 10; i++ {
		p.mu.Lock()
		if i%2 == 0 {
			p.errs = nil
		} else {
			p.errs = []error{errors.New("down")}
		}
		p.mu.Unlock()
		w.CheckNow(ctx)
	}
	require.Equal(t, Offline, w.Status())
}
