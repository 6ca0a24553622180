// Package api implements the REST client for the ocean-hazard backend: the
// online multipart submit, the offline-sync endpoints, SOS, the reachability
// probe and the cached dashboard fetch.
package api

import (
	"context"

	"oceanwatch/internal/client/models"
)

// Ack is the backend's acknowledgment for a direct report submission. The
// backend runs auto-moderation, so an accepted request may still come back
// rejected with a human-readable reason.
type Ack struct {
	Success         bool   `json:"success"`
	Rejected        bool   `json:"rejected"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	Message         string `json:"message"`
}

// SyncResult is the backend's response to an offline-sync submission.
type SyncResult struct {
	Success bool   `json:"success"`
	PostID  *int64 `json:"post_id"`
	Message string `json:"message"`
}

// Client is the backend surface the capture pipeline and sync engine use.
type Client interface {
	// Ping probes backend reachability.
	Ping(ctx context.Context) error

	// SubmitReport sends a report as a multipart request (online path).
	SubmitReport(ctx context.Context, r *models.PendingReport) (*Ack, error)

	// SyncReport sends a queued report as JSON with the image re-encoded
	// as base64, because the record was reconstituted from local storage.
	SyncReport(ctx context.Context, r *models.PendingReport) (*SyncResult, error)

	// SubmitSOS sends an SOS alert as JSON (online path).
	SubmitSOS(ctx context.Context, s *models.PendingSOS) (*Ack, error)

	// SyncSOS sends a queued SOS alert as a url-encoded form.
	SyncSOS(ctx context.Context, s *models.PendingSOS) error

	// Dashboard fetches the dashboard body, falling back to the last
	// cached copy when the backend is unreachable. The bool reports
	// whether the returned body is stale (served from cache).
	Dashboard(ctx context.Context) ([]byte, bool, error)
}
