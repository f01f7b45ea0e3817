package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/pkg/apperrors"
)

// ImportJobRepository handles database operations for import jobs.
// The import_jobs table doubles as the work queue and the status record.
type ImportJobRepository struct {
	db *pgxpool.Pool
}

// NewImportJobRepository creates a new import job repository
func NewImportJobRepository(db *pgxpool.Pool) *ImportJobRepository {
	return &ImportJobRepository{
		db: db,
	}
}

const importJobColumns = `
	id, school_id, bucket, key, status,
	processed_lines, created, updated, skipped, errors,
	error_report_key, processed_at, claimed_at, created_at`

func scanImportJob(row pgx.Row) (*models.ImportJob, error) {
	var job models.ImportJob
	err := row.Scan(
		&job.ID,
		&job.SchoolID,
		&job.Bucket,
		&job.Key,
		&job.Status,
		&job.ProcessedLines,
		&job.Created,
		&job.Updated,
		&job.Skipped,
		&job.Errors,
		&job.ErrorReportKey,
		&job.ProcessedAt,
		&job.ClaimedAt,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Enqueue inserts a new queued job
func (r *ImportJobRepository) Enqueue(ctx context.Context, job *models.ImportJob) error {
	query := `
		INSERT INTO import_jobs (id, school_id, bucket, key, status, error_report_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		job.ID, job.SchoolID, job.Bucket, job.Key,
		models.ImportJobQueued, job.ErrorReportKey).Scan(&job.CreatedAt)
	if err != nil {
		return fmt.Errorf("error enqueueing import job: %w", err)
	}

	job.Status = models.ImportJobQueued
	return nil
}

// GetByID retrieves an import job by ID
func (r *ImportJobRepository) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE id = $1`

	job, err := scanImportJob(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrImportJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving import job: %w", err)
	}

	return job, nil
}

// ClaimNext atomically claims the oldest runnable job and flips it to
// PROCESSING. A PROCESSING job whose claim is older than requeueAfter is
// considered abandoned and may be claimed again. Returns (nil, nil) when
// the queue is empty.
func (r *ImportJobRepository) ClaimNext(ctx context.Context, requeueAfter time.Duration) (*models.ImportJob, error) {
	staleBefore := time.Now().Add(-requeueAfter)

	query := `
		UPDATE import_jobs
		SET status = $1, claimed_at = NOW()
		WHERE id = (
			SELECT id FROM import_jobs
			WHERE status = $2
			   OR (status = $1 AND claimed_at < $3)
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + importJobColumns

	job, err := scanImportJob(r.db.QueryRow(ctx, query,
		models.ImportJobProcessing, models.ImportJobQueued, staleBefore))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error claiming import job: %w", err)
	}

	return job, nil
}

// Complete writes the final counters and terminal status of a job
func (r *ImportJobRepository) Complete(ctx context.Context, id string, status models.ImportJobStatus, summary models.ImportSummary, processedAt time.Time) error {
	query := `
		UPDATE import_jobs
		SET status = $1, processed_lines = $2, created = $3, updated = $4,
		    skipped = $5, errors = $6, error_report_key = $7, processed_at = $8
		WHERE id = $9
	`

	tag, err := r.db.Exec(ctx, query,
		status, summary.ProcessedLines, summary.Created, summary.Updated,
		summary.Skipped, summary.Errors, summary.ErrorReportKey, processedAt, id)
	if err != nil {
		return fmt.Errorf("error completing import job: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrImportJobNotFound
	}

	return nil
}
