package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"oceanwatch/internal/client/api"
	"oceanwatch/internal/client/connectivity"
	"oceanwatch/internal/client/models"
	"oceanwatch/internal/logging"
)

// ReportQueue is the slice of the store the sync engine and capture pipeline
// need for hazard reports.
type ReportQueue interface {
	Put(ctx context.Context, r *models.PendingReport) (int64, error)
	GetAll(ctx context.Context) ([]models.PendingReport, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// SOSQueue is the same surface for SOS alerts.
type SOSQueue interface {
	Put(ctx context.Context, s *models.PendingSOS) (int64, error)
	GetAll(ctx context.Context) ([]models.PendingSOS, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// DrainReport summarizes one drain pass.
type DrainReport struct {
	Submitted    int
	Failed       int
	SOSSubmitted int
	SOSFailed    int

	// Skipped is set when another drain was already in flight and this
	// invocation did nothing.
	Skipped bool
}

// SyncEngine reconciles queued records with the backend: one sequential pass
// over each queue per drain, at-least-once delivery, idempotent cleanup.
type SyncEngine struct {
	api           api.Client
	reports       ReportQueue
	sos           SOSQueue
	recordTimeout time.Duration
	log           logging.Logger

	inFlight atomic.Bool
	onSynced func()
}

func NewSyncEngine(client api.Client, reports ReportQueue, sos SOSQueue, recordTimeout time.Duration, log logging.Logger) *SyncEngine {
	return &SyncEngine{
		api:           client,
		reports:       reports,
		sos:           sos,
		recordTimeout: recordTimeout,
		log:           log,
	}
}

// OnSynced registers a callback invoked after any drain pass that delivered
// at least one record, so displayed data can be refreshed. Must be set
// before the engine starts running.
func (e *SyncEngine) OnSynced(fn func()) {
	e.onSynced = fn
}

// Run consumes watcher transitions and drains once per offline→online edge.
// It returns when ctx is done or the event channel closes.
func (e *SyncEngine) Run(ctx context.Context, events <-chan connectivity.Transition) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.To != connectivity.Online {
				continue
			}
			if _, err := e.Drain(ctx); err != nil {
				e.log.Error(ctx, "drain failed", "error", err)
			}
		}
	}
}

// Drain attempts to deliver every queued record, strictly sequentially and
// in insertion order. A record is deleted only after the backend confirms
// it; a failed record is left untouched for the next drain and never aborts
// the rest of the pass. Overlapping invocations are discarded: the
// getAll+delete sequence is not safe to run concurrently with itself.
func (e *SyncEngine) Drain(ctx context.Context) (DrainReport, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		e.log.Debug(ctx, "drain already in flight, skipping")
		return DrainReport{Skipped: true}, nil
	}
	defer e.inFlight.Store(false)

	var rep DrainReport
	var errs []error

	queued, err := e.reports.GetAll(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	for i := range queued {
		r := &queued[i]
		if e.syncOneReport(ctx, r) {
			rep.Submitted++
		} else {
			rep.Failed++
		}
	}

	sosQueued, err := e.sos.GetAll(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	for i := range sosQueued {
		s := &sosQueued[i]
		if e.syncOneSOS(ctx, s) {
			rep.SOSSubmitted++
		} else {
			rep.SOSFailed++
		}
	}

	if rep.Submitted+rep.SOSSubmitted > 0 {
		e.log.Info(ctx, "drain finished",
			"submitted", rep.Submitted, "failed", rep.Failed,
			"sos_submitted", rep.SOSSubmitted, "sos_failed", rep.SOSFailed)
		if e.onSynced != nil {
			e.onSynced()
		}
	}

	return rep, errors.Join(errs...)
}

func (e *SyncEngine) syncOneReport(ctx context.Context, r *models.PendingReport) bool {
	recordCtx, cancel := context.WithTimeout(ctx, e.recordTimeout)
	_, err := e.api.SyncReport(recordCtx, r)
	cancel()

	if err != nil {
		e.log.Warn(ctx, "report sync failed, record stays queued", "id", r.ID, "error", err)
		return false
	}

	if err := e.reports.Delete(ctx, r.ID); err != nil {
		// The backend has the report but the local copy survived the
		// failed delete; it will be resubmitted on the next drain.
		// Losing a hazard report is worse than an occasional duplicate.
		e.log.Error(ctx, "failed to delete synced report, duplicate possible on next drain", "id", r.ID, "error", err)
	}
	return true
}

func (e *SyncEngine) syncOneSOS(ctx context.Context, s *models.PendingSOS) bool {
	recordCtx, cancel := context.WithTimeout(ctx, e.recordTimeout)
	err := e.api.SyncSOS(recordCtx, s)
	cancel()

	if err != nil {
		e.log.Warn(ctx, "sos sync failed, record stays queued", "id", s.ID, "error", err)
		return false
	}

	if err := e.sos.Delete(ctx, s.ID); err != nil {
		e.log.Error(ctx, "failed to delete synced sos, duplicate possible on next drain", "id", s.ID, "error", err)
	}
	return true
}
