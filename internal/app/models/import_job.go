package models

import "time"

// ImportJob is both the queue entry and the status record for one bulk
// onboarding file. Counters are written once, at completion.
type ImportJob struct {
	ID             string          `json:"id" db:"id"`
	SchoolID       string          `json:"schoolId" db:"school_id"`
	Bucket         string          `json:"bucket" db:"bucket"`
	Key            string          `json:"key" db:"key"`
	Status         ImportJobStatus `json:"status" db:"status"`
	ProcessedLines int             `json:"processedLines" db:"processed_lines"`
	Created        int             `json:"created" db:"created"`
	Updated        int             `json:"updated" db:"updated"`
	Skipped        int             `json:"skipped" db:"skipped"`
	Errors         int             `json:"errors" db:"errors"`
	ErrorReportKey *string         `json:"errorReportKey,omitempty" db:"error_report_key"`
	ProcessedAt    *time.Time      `json:"processedAt,omitempty" db:"processed_at"`
	ClaimedAt      *time.Time      `json:"claimedAt,omitempty" db:"claimed_at"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// ImportSummary carries the final counters of a completed job
type ImportSummary struct {
	ProcessedLines int     `json:"processed"`
	Created        int     `json:"created"`
	Updated        int     `json:"updated"`
	Skipped        int     `json:"skipped"`
	Errors         int     `json:"errors"`
	ErrorReportKey *string `json:"errorReportKey"`
}
