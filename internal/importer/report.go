package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/pkg/objectstore"
)

// JobStore is the persistence port for finishing import jobs
type JobStore interface {
	Complete(ctx context.Context, id string, status models.ImportJobStatus, summary models.ImportSummary, processedAt time.Time) error
}

// AuditSink records audit events
type AuditSink interface {
	Append(ctx context.Context, event *models.AuditEvent) error
}

// Reporter finishes a processed job: error report upload, terminal status,
// audit trail.
type Reporter struct {
	objects objectstore.Store
	jobs    JobStore
	audit   AuditSink
}

// NewReporter creates a completion reporter
func NewReporter(objects objectstore.Store, jobs JobStore, audit AuditSink) *Reporter {
	return &Reporter{
		objects: objects,
		jobs:    jobs,
		audit:   audit,
	}
}

// Finish uploads the error report when any row failed, flips the job to its
// terminal status with the final counters, and appends one audit event.
func (r *Reporter) Finish(ctx context.Context, job *models.ImportJob, outcome *Outcome) (models.ImportSummary, error) {
	summary := models.ImportSummary{
		ProcessedLines: outcome.Processed,
		Created:        outcome.Created,
		Updated:        outcome.Updated,
		Skipped:        outcome.Skipped,
		Errors:         len(outcome.RowErrors),
	}

	status := models.ImportJobCompleted
	if len(outcome.RowErrors) > 0 {
		status = models.ImportJobCompletedWithErrors

		key := errorReportKey(job)
		report, err := renderErrorReport(outcome.RowErrors)
		if err != nil {
			return summary, err
		}
		if err := r.objects.Put(ctx, job.Bucket, key, "text/csv", report); err != nil {
			return summary, fmt.Errorf("error uploading error report: %w", err)
		}
		summary.ErrorReportKey = &key
	}

	processedAt := time.Now()
	if err := r.jobs.Complete(ctx, job.ID, status, summary, processedAt); err != nil {
		return summary, err
	}
	job.Status = status
	job.ProcessedAt = &processedAt

	payload := map[string]interface{}{
		"processed": summary.ProcessedLines,
		"created":   summary.Created,
		"updated":   summary.Updated,
		"skipped":   summary.Skipped,
		"errors":    summary.Errors,
	}
	if summary.ErrorReportKey != nil {
		payload["errorReportKey"] = *summary.ErrorReportKey
	}

	event := &models.AuditEvent{
		ID:         uuid.New().String(),
		SchoolID:   job.SchoolID,
		Action:     models.AuditActionImportCompleted,
		EntityType: models.AuditEntityImportJob,
		EntityID:   job.ID,
		Payload:    payload,
	}
	if err := r.audit.Append(ctx, event); err != nil {
		return summary, err
	}

	return summary, nil
}

// errorReportKey resolves where the error report is written: the key the
// caller asked for, or the source key with an -errors suffix.
func errorReportKey(job *models.ImportJob) string {
	if job.ErrorReportKey != nil && *job.ErrorReportKey != "" {
		return *job.ErrorReportKey
	}
	return strings.TrimSuffix(job.Key, ".csv") + "-errors.csv"
}

// renderErrorReport encodes rejected rows as a CSV with the original cells
// JSON-encoded in the last column, keeping commas and quotes intact.
func renderErrorReport(rowErrors []RowError) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"rowNumber", "reason", "row"}); err != nil {
		return nil, fmt.Errorf("error writing report header: %w", err)
	}

	for _, re := range rowErrors {
		cells, err := json.Marshal(re.Cells)
		if err != nil {
			return nil, fmt.Errorf("error encoding row %d: %w", re.RowNumber, err)
		}
		record := []string{fmt.Sprintf("%d", re.RowNumber), re.Reason, string(cells)}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", re.RowNumber, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error flushing report: %w", err)
	}

	return buf.Bytes(), nil
}
