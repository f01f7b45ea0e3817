package models

// StudentStatus defines the lifecycle status of a student record
type StudentStatus string

const (
	StudentActive   StudentStatus = "ACTIVE"
	StudentInactive StudentStatus = "INACTIVE"
)

// GuardianStatus defines the lifecycle status of a guardian record
type GuardianStatus string

const (
	GuardianActive GuardianStatus = "ACTIVE"
)

// EnrollmentStatus defines the status of an enrollment
type EnrollmentStatus string

const (
	Enrolled  EnrollmentStatus = "ENROLLED"
	Withdrawn EnrollmentStatus = "WITHDRAWN"
)

// RelationshipGuardian is the relationship recorded for links created by the importer
const RelationshipGuardian = "guardian"

// ImportJobStatus defines the state of an import job
type ImportJobStatus string

const (
	ImportJobQueued              ImportJobStatus = "QUEUED"
	ImportJobProcessing          ImportJobStatus = "PROCESSING"
	ImportJobCompleted           ImportJobStatus = "COMPLETED"
	ImportJobCompletedWithErrors ImportJobStatus = "COMPLETED_WITH_ERRORS"
)

// Audit actions
const (
	AuditActionImportCompleted = "IMPORT_COMPLETED"
)

// Audit entity types
const (
	AuditEntityImportJob = "ImportJob"
)
