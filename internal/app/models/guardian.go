package models

// Guardian defines the guardian (parent) model based on the 'guardians' table.
// Phone and Email are stored normalized; within a school a given phone or
// email resolves to exactly one guardian record.
type Guardian struct {
	ID       string         `json:"id" db:"id"`
	SchoolID string         `json:"schoolId" db:"school_id"`
	FullName string         `json:"fullName" db:"full_name"`
	Phone    string         `json:"phone" db:"phone"`
	Email    string         `json:"email" db:"email"`
	Status   GuardianStatus `json:"status" db:"status"`
}

// StudentGuardianLink ties a student to a guardian, idempotent by
// (studentId, guardianId).
type StudentGuardianLink struct {
	StudentID    string `json:"studentId" db:"student_id"`
	GuardianID   string `json:"guardianId" db:"guardian_id"`
	Relationship string `json:"relationship" db:"relationship"`
	IsPrimary    bool   `json:"isPrimary" db:"is_primary"`
}
