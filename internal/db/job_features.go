package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetJobFeatures retrieves the features row for a job.
// Returns nil, nil when no features have been computed yet.
func (db *DB) GetJobFeatures(ctx context.Context, jobID uuid.UUID) (*JobFeatures, error) {
	var f JobFeatures
	err := db.pool.QueryRow(ctx,
		`SELECT job_id, salary_min, salary_max, currency, time_type, department,
		        salary_provenance, updated_at
		 FROM job_features WHERE job_id = $1`,
		jobID,
	).Scan(&f.JobID, &f.SalaryMin, &f.SalaryMax, &f.Currency, &f.TimeType,
		&f.Department, &f.SalaryProvenance, &f.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job features: %w", err)
	}
	return &f, nil
}

// ReplaceJobFeatures upserts the features row for a job wholesale. Every
// re-ingest recomputes all fields; stale values never survive a refresh.
func (db *DB) ReplaceJobFeatures(ctx context.Context, jobID uuid.UUID, input *JobFeaturesInput) (*JobFeatures, error) {
	var f JobFeatures
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_features (job_id, salary_min, salary_max, currency, time_type,
		                           department, salary_provenance, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (job_id) DO UPDATE SET
		     salary_min = $2,
		     salary_max = $3,
		     currency = $4,
		     time_type = $5,
		     department = $6,
		     salary_provenance = $7,
		     updated_at = NOW()
		 RETURNING job_id, salary_min, salary_max, currency, time_type, department,
		           salary_provenance, updated_at`,
		jobID, input.SalaryMin, input.SalaryMax, input.Currency, input.TimeType,
		input.Department, input.SalaryProvenance,
	).Scan(&f.JobID, &f.SalaryMin, &f.SalaryMax, &f.Currency, &f.TimeType,
		&f.Department, &f.SalaryProvenance, &f.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to replace job features: %w", err)
	}
	return &f, nil
}
