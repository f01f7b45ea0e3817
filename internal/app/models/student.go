package models

// Student defines the student model based on the 'students' table.
// AdmissionNo is the tenant-unique natural key used by the importer.
type Student struct {
	ID          string        `json:"id" db:"id"`
	SchoolID    string        `json:"schoolId" db:"school_id"`
	AdmissionNo string        `json:"admissionNo" db:"admission_no"`
	FirstName   string        `json:"firstName" db:"first_name"`
	LastName    string        `json:"lastName" db:"last_name"`
	Status      StudentStatus `json:"status" db:"status"`
}
