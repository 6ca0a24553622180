package cli

import (
	"context"
	"fmt"
)

// Status forces a reachability probe and prints the connectivity state and
// queue depths.
func (a *App) Status(ctx context.Context) error {
	status := a.watcher.CheckNow(ctx)

	reports, err := a.store.Reports.Count(ctx)
	if err != nil {
		return err
	}
	sos, err := a.store.SOS.Count(ctx)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("connectivity: %s, queued reports: %d, queued sos: %d", status, reports, sos))
	if a.store.Degraded() {
		printlnFn("warning: store is memory-only, queued records will not survive a restart")
	}
	return nil
}

// Sync manually triggers a drain pass.
func (a *App) Sync(ctx context.Context) error {
	rep, err := a.engine.Drain(ctx)
	if err != nil {
		printlnFn("Sync error:", err)
		return err
	}
	if rep.Skipped {
		printlnFn("Sync already in progress.")
		return nil
	}
	printlnFn(fmt.Sprintf("synced %d report(s) and %d sos alert(s), %d left queued",
		rep.Submitted, rep.SOSSubmitted, rep.Failed+rep.SOSFailed))
	return nil
}

// Dashboard prints the dashboard body, cached when offline.
func (a *App) Dashboard(ctx context.Context) error {
	body, stale, err := a.api.Dashboard(ctx)
	if err != nil {
		printlnFn("Dashboard unavailable:", err)
		return err
	}
	if stale {
		printlnFn("(offline, showing last known data)")
	}
	printlnFn(string(body))
	return nil
}
