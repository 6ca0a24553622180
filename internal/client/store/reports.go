package store

import (
	"context"
	"fmt"
	"time"

	"oceanwatch/internal/client/models"
	"oceanwatch/internal/dbx"
)

// ReportQueue is the offline_reports partition: hazard reports captured while
// offline, awaiting sync.
type ReportQueue struct {
	db dbx.DBTX
}

// NewReportQueue returns a ReportQueue bound to the given DBTX.
func NewReportQueue(db dbx.DBTX) *ReportQueue {
	return &ReportQueue{db: db}
}

// Put inserts a pending report and returns the store-assigned identifier.
// Identifiers are monotonic (AUTOINCREMENT), so insertion order is id order.
func (q *ReportQueue) Put(ctx context.Context, r *models.PendingReport) (int64, error) {
	query := `INSERT INTO offline_reports
		(user_id, hazard_type, severity, description, latitude, longitude, location_name, image, image_type, queued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := q.db.ExecContext(ctx, query,
		r.UserID, r.HazardType, r.Severity, r.Description,
		r.Latitude, r.Longitude, r.LocationName,
		r.Image, r.ImageType, r.QueuedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to queue report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get queued report id: %w", err)
	}
	return id, nil
}

// GetAll returns every queued report in insertion order.
func (q *ReportQueue) GetAll(ctx context.Context) ([]models.PendingReport, error) {
	query := `SELECT id, user_id, hazard_type, severity, description, latitude, longitude, location_name, image, image_type, queued_at
		FROM offline_reports ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select queued reports: %w", err)
	}
	defer rows.Close()

	var result []models.PendingReport
	for rows.Next() {
		var item models.PendingReport
		var queuedAt string
		if err := rows.Scan(&item.ID, &item.UserID, &item.HazardType, &item.Severity,
			&item.Description, &item.Latitude, &item.Longitude, &item.LocationName,
			&item.Image, &item.ImageType, &queuedAt); err != nil {
			return nil, err
		}
		item.QueuedAt, err = time.Parse(time.RFC3339Nano, queuedAt)
		if err != nil {
			return nil, fmt.Errorf("queued report %d has malformed queued_at %q: %w", item.ID, queuedAt, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a queued report by id. Deleting an id that does not exist
// is not an error: a drain may legitimately race an earlier delete.
func (q *ReportQueue) Delete(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM offline_reports WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete queued report %d: %w", id, err)
	}
	return nil
}

// Count returns the number of queued reports.
func (q *ReportQueue) Count(ctx context.Context) (int, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offline_reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queued reports: %w", err)
	}
	return n, nil
}
