package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository    *StudentRepository
	GuardianRepository   *GuardianRepository
	EnrollmentRepository *EnrollmentRepository
	ReferenceRepository  *ReferenceRepository
	ImportJobRepository  *ImportJobRepository
	AuditRepository      *AuditRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:    NewStudentRepository(db),
		GuardianRepository:   NewGuardianRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		ReferenceRepository:  NewReferenceRepository(db),
		ImportJobRepository:  NewImportJobRepository(db),
		AuditRepository:      NewAuditRepository(db),
	}
}
