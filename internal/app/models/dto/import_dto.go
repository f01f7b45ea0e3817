package dto

import (
	"time"

	"github.com/brightclass/roster/internal/app/models"
)

// CreateImportJobRequest is the payload for enqueueing an import
type CreateImportJobRequest struct {
	SchoolID       string  `json:"schoolId" binding:"required,uuid"`
	Bucket         string  `json:"bucket" binding:"required"`
	Key            string  `json:"key" binding:"required"`
	ErrorReportKey *string `json:"errorReportKey"`
}

// ImportJobResponse represents an import job and its counters
type ImportJobResponse struct {
	ID             string     `json:"id"`
	SchoolID       string     `json:"schoolId"`
	Bucket         string     `json:"bucket"`
	Key            string     `json:"key"`
	Status         string     `json:"status"`
	Processed      int        `json:"processed"`
	Created        int        `json:"created"`
	Updated        int        `json:"updated"`
	Skipped        int        `json:"skipped"`
	Errors         int        `json:"errors"`
	ErrorReportKey *string    `json:"errorReportKey,omitempty"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NewImportJobResponse maps an import job model to its response form
func NewImportJobResponse(job *models.ImportJob) ImportJobResponse {
	return ImportJobResponse{
		ID:             job.ID,
		SchoolID:       job.SchoolID,
		Bucket:         job.Bucket,
		Key:            job.Key,
		Status:         string(job.Status),
		Processed:      job.ProcessedLines,
		Created:        job.Created,
		Updated:        job.Updated,
		Skipped:        job.Skipped,
		Errors:         job.Errors,
		ErrorReportKey: job.ErrorReportKey,
		ProcessedAt:    job.ProcessedAt,
		CreatedAt:      job.CreatedAt,
	}
}
