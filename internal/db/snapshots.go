package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Simhashes are stored as BIGINT; the uint64 fingerprints round-trip
// through int64 bit patterns.

// InsertSnapshot appends a fingerprint snapshot for a job and returns its id.
func (db *DB) InsertSnapshot(ctx context.Context, jobID uuid.UUID, input *SnapshotInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_snapshots (job_id, taken_at, source_updated_at, content_hash,
		                            metadata_hash, content_simhash, metadata_simhash, raw_payload)
		 VALUES ($1, NOW(), $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		jobID, input.SourceUpdatedAt, input.ContentHash, input.MetadataHash,
		int64(input.ContentSimhash), int64(input.MetadataSimhash), input.RawPayload,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot retrieves the most recent snapshot for a job.
// Returns nil, nil when the job has never been snapshotted.
func (db *DB) LatestSnapshot(ctx context.Context, jobID uuid.UUID) (*JobSnapshot, error) {
	var s JobSnapshot
	var contentSim, metadataSim int64
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_id, taken_at, source_updated_at, content_hash, metadata_hash,
		        content_simhash, metadata_simhash, raw_payload
		 FROM job_snapshots
		 WHERE job_id = $1
		 ORDER BY taken_at DESC
		 LIMIT 1`,
		jobID,
	).Scan(&s.ID, &s.JobID, &s.TakenAt, &s.SourceUpdatedAt, &s.ContentHash,
		&s.MetadataHash, &contentSim, &metadataSim, &s.RawPayload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	s.ContentSimhash = uint64(contentSim)
	s.MetadataSimhash = uint64(metadataSim)
	return &s, nil
}

// ListSnapshots returns all snapshots for a job ordered by capture time.
func (db *DB) ListSnapshots(ctx context.Context, jobID uuid.UUID) ([]JobSnapshot, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, taken_at, source_updated_at, content_hash, metadata_hash,
		        content_simhash, metadata_simhash, raw_payload
		 FROM job_snapshots
		 WHERE job_id = $1
		 ORDER BY taken_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []JobSnapshot
	for rows.Next() {
		var s JobSnapshot
		var contentSim, metadataSim int64
		if err := rows.Scan(&s.ID, &s.JobID, &s.TakenAt, &s.SourceUpdatedAt,
			&s.ContentHash, &s.MetadataHash, &contentSim, &metadataSim, &s.RawPayload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.ContentSimhash = uint64(contentSim)
		s.MetadataSimhash = uint64(metadataSim)
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	return snapshots, nil
}
