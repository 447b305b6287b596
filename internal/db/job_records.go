package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetJobRecordByKey retrieves a job record by its composite key.
// Returns nil, nil when no record exists.
func (db *DB) GetJobRecordByKey(ctx context.Context, key CompositeKey) (*JobRecord, error) {
	var r JobRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, provider, tenant_slug, external_job_id, title, company, location,
		        url, first_published, updated_at, last_seen, is_active, created_at
		 FROM job_records
		 WHERE provider = $1 AND tenant_slug = $2 AND external_job_id = $3`,
		key.Provider, key.TenantSlug, key.ExternalJobID,
	).Scan(&r.ID, &r.Provider, &r.TenantSlug, &r.ExternalJobID, &r.Title, &r.Company,
		&r.Location, &r.URL, &r.FirstPublished, &r.UpdatedAt, &r.LastSeen,
		&r.IsActive, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job record: %w", err)
	}
	return &r, nil
}

// UpsertJobRecord creates or refreshes a job record by composite key.
// ON CONFLICT on the composite key updates the existing row and returns its
// id, so concurrent ingests of the same posting never create duplicates.
func (db *DB) UpsertJobRecord(ctx context.Context, input *JobRecordUpsertInput) (*JobRecord, error) {
	var r JobRecord
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_records (provider, tenant_slug, external_job_id, title, company,
		                          location, url, first_published, updated_at, last_seen, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), TRUE)
		 ON CONFLICT (provider, tenant_slug, external_job_id) DO UPDATE SET
		     title = $4,
		     company = $5,
		     location = $6,
		     url = $7,
		     first_published = COALESCE($8, job_records.first_published),
		     updated_at = $9,
		     last_seen = NOW(),
		     is_active = TRUE
		 RETURNING id, provider, tenant_slug, external_job_id, title, company, location,
		           url, first_published, updated_at, last_seen, is_active, created_at`,
		input.Key.Provider, input.Key.TenantSlug, input.Key.ExternalJobID,
		input.Title, input.Company, input.Location, input.URL,
		input.FirstPublished, input.UpdatedAt,
	).Scan(&r.ID, &r.Provider, &r.TenantSlug, &r.ExternalJobID, &r.Title, &r.Company,
		&r.Location, &r.URL, &r.FirstPublished, &r.UpdatedAt, &r.LastSeen,
		&r.IsActive, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job record: %w", err)
	}
	return &r, nil
}

// MarkJobInactive flags a record whose source no longer returns a posting.
// The row stays around; last_seen is stamped so freshness checks see the
// failed observation.
func (db *DB) MarkJobInactive(ctx context.Context, jobID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_records SET is_active = FALSE, last_seen = NOW() WHERE id = $1`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark job inactive: %w", err)
	}
	return nil
}
