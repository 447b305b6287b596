package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertUpdateEvent appends a source-reported update timestamp to a job's
// event log, but only when it is strictly newer than the latest value
// already recorded. Returns true when a row was inserted.
func (db *DB) InsertUpdateEvent(ctx context.Context, jobID uuid.UUID, updatedAt time.Time) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO job_update_events (job_id, updated_at, recorded_at)
		 SELECT $1, $2, NOW()
		 WHERE NOT EXISTS (
		   SELECT 1 FROM job_update_events
		   WHERE job_id = $1 AND updated_at >= $2
		 )`,
		jobID, updatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert update event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListUpdateEvents returns a job's observed update timestamps in ascending
// order, capped to the most recent UpdateEventReadCap entries. The log is
// unbounded; the cap keeps cadence analysis over recent behavior.
func (db *DB) ListUpdateEvents(ctx context.Context, jobID uuid.UUID) ([]JobUpdateEvent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, updated_at, recorded_at FROM (
		   SELECT id, job_id, updated_at, recorded_at
		   FROM job_update_events
		   WHERE job_id = $1
		   ORDER BY updated_at DESC
		   LIMIT $2
		 ) recent
		 ORDER BY updated_at ASC`,
		jobID, UpdateEventReadCap,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list update events: %w", err)
	}
	defer rows.Close()

	var events []JobUpdateEvent
	for rows.Next() {
		var e JobUpdateEvent
		if err := rows.Scan(&e.ID, &e.JobID, &e.UpdatedAt, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan update event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read update events: %w", err)
	}
	return events, nil
}
