package store

import (
	"context"
	"fmt"
	"time"

	"oceanwatch/internal/client/models"
	"oceanwatch/internal/dbx"
)

// SOSQueue is the offline_sos partition: SOS alerts captured while offline.
// Text fields only; the schema deliberately has no image column.
type SOSQueue struct {
	db dbx.DBTX
}

func NewSOSQueue(db dbx.DBTX) *SOSQueue {
	return &SOSQueue{db: db}
}

// Put inserts a pending SOS alert and returns the store-assigned identifier.
func (q *SOSQueue) Put(ctx context.Context, s *models.PendingSOS) (int64, error) {
	query := `INSERT INTO offline_sos
		(user_id, phone, description, latitude, longitude, location_name, queued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := q.db.ExecContext(ctx, query,
		s.UserID, s.Phone, s.Description,
		s.Latitude, s.Longitude, s.LocationName,
		s.QueuedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to queue sos alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get queued sos id: %w", err)
	}
	return id, nil
}

// GetAll returns every queued SOS alert in insertion order.
func (q *SOSQueue) GetAll(ctx context.Context) ([]models.PendingSOS, error) {
	query := `SELECT id, user_id, phone, description, latitude, longitude, location_name, queued_at
		FROM offline_sos ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select queued sos alerts: %w", err)
	}
	defer rows.Close()

	var result []models.PendingSOS
	for rows.Next() {
		var item models.PendingSOS
		var queuedAt string
		if err := rows.Scan(&item.ID, &item.UserID, &item.Phone, &item.Description,
			&item.Latitude, &item.Longitude, &item.LocationName, &queuedAt); err != nil {
			return nil, err
		}
		item.QueuedAt, err = time.Parse(time.RFC3339Nano, queuedAt)
		if err != nil {
			return nil, fmt.Errorf("queued sos %d has malformed queued_at %q: %w", item.ID, queuedAt, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a queued SOS alert by id; idempotent.
func (q *SOSQueue) Delete(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM offline_sos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete queued sos %d: %w", id, err)
	}
	return nil
}

// Count returns the number of queued SOS alerts.
func (q *SOSQueue) Count(ctx context.Context) (int, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offline_sos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queued sos alerts: %w", err)
	}
	return n, nil
}
