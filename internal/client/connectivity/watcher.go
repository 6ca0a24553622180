// Package connectivity tracks backend reachability and exposes
// online/offline transitions as edge-triggered events. The watcher is the
// single trigger for sync: it publishes transitions, it never performs data
// operations itself.
package connectivity

import (
	"context"
	"sync"
	"time"

	"oceanwatch/internal/logging"
)

type Status string

const (
	Online  Status = "online"
	Offline Status = "offline"
)

// Transition is an edge-triggered notification that connectivity changed
// state. Subscribers only ever see edges, never repeats of the same state.
type Transition struct {
	From Status
	To   Status
	At   time.Time
}

// Prober checks backend reachability. The API client satisfies this.
type Prober interface {
	Ping(ctx context.Context) error
}

const (
	probeTimeout    = 3 * time.Second
	defaultInterval = 5 * time.Second
)

// Watcher periodically probes the backend and publishes status transitions
// to subscribers. The reachability signal is best-effort: a captive portal
// can produce false positives, which the sync path tolerates by treating
// submission failures as retryable.
type Watcher struct {
	prober   Prober
	interval time.Duration
	log      logging.Logger

	mu     sync.Mutex
	status Status
	subs   []chan Transition
}

// NewWatcher returns a watcher that starts out Offline; the first probe runs
// as soon as Run is called, so a reachable backend produces an immediate
// offline→online transition (and with it, an initial drain).
func NewWatcher(p Prober, interval time.Duration, log logging.Logger) *Watcher {
	// time.NewTicker panics on a nonpositive interval.
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Watcher{prober: p, interval: interval, log: log, status: Offline}
}

// Status returns the last observed connectivity state.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Subscribe returns a channel of future transitions. The channel is buffered;
// a subscriber that falls behind loses events rather than blocking the
// watcher.
func (w *Watcher) Subscribe() <-chan Transition {
	ch := make(chan Transition, 4)
	w.mu.Lock()
	w.subs = append(w.subs, ch)
	w.mu.Unlock()
	return ch
}

// Run probes immediately and then on every interval tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	w.CheckNow(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.CheckNow(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// CheckNow performs a single reachability probe and updates the status.
func (w *Watcher) CheckNow(ctx context.Context) Status {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := w.prober.Ping(probeCtx)
	cancel()

	if err != nil {
		w.setStatus(ctx, Offline)
		return Offline
	}
	w.setStatus(ctx, Online)
	return Online
}

func (w *Watcher) setStatus(ctx context.Context, s Status) {
	w.mu.Lock()
	if w.status == s {
		w.mu.Unlock()
		return
	}
	from := w.status
	w.status = s
	subs := make([]chan Transition, len(w.subs))
	copy(subs, w.subs)
	w.mu.Unlock()

	w.log.Info(ctx, "connectivity changed", "from", from, "to", s)

	ev := Transition{From: from, To: s, At: time.Now()}
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			w.log.Warn(ctx, "dropping connectivity event for slow subscriber", "to", s)
		}
	}
}
