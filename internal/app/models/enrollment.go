package models

// Enrollment places a student in a class group for a term.
// At most one enrollment exists per (studentId, termId).
type Enrollment struct {
	ID           string           `json:"id" db:"id"`
	StudentID    string           `json:"studentId" db:"student_id"`
	TermID       string           `json:"termId" db:"term_id"`
	ClassGroupID string           `json:"classGroupId" db:"class_group_id"`
	SessionID    string           `json:"sessionId" db:"session_id"`
	Status       EnrollmentStatus `json:"status" db:"status"`
}
