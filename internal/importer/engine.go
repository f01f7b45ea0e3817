package importer

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/pkg/apperrors"
	"github.com/brightclass/roster/internal/pkg/logger"
)

// StudentStore is the persistence port for students
type StudentStore interface {
	GetByAdmissionNo(ctx context.Context, schoolID, admissionNo string) (*models.Student, error)
	CreateIfAbsent(ctx context.Context, student *models.Student) (bool, error)
	Update(ctx context.Context, student *models.Student) error
}

// GuardianStore is the persistence port for guardians and links
type GuardianStore interface {
	GetByPhone(ctx context.Context, schoolID, phone string) (*models.Guardian, error)
	GetByEmail(ctx context.Context, schoolID, email string) (*models.Guardian, error)
	CreateIfAbsent(ctx context.Context, guardian *models.Guardian) (bool, error)
	Update(ctx context.Context, guardian *models.Guardian) error
	UpsertLink(ctx context.Context, link *models.StudentGuardianLink) error
}

// EnrollmentStore is the persistence port for enrollments
type EnrollmentStore interface {
	GetByStudentAndTerm(ctx context.Context, studentID, termID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
}

// RowError records one rejected input row for the error report
type RowError struct {
	RowNumber int
	Cells     []string
	Reason    string
}

// Outcome accumulates the counters and rejections of one processed file
type Outcome struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
	RowErrors []RowError
}

func (o *Outcome) reject(row Row, reason string) {
	o.RowErrors = append(o.RowErrors, RowError{
		RowNumber: row.Number,
		Cells:     row.Cells,
		Reason:    reason,
	})
}

// Engine turns resolved rows into idempotent create-or-update writes.
//
// Rows are processed strictly sequentially: the in-job dedup maps (seen
// admission numbers, phone/email to guardian) are unsynchronized mutable
// state shared across rows. Parallelizing the loop would need per-row-safe
// synchronization or partitioning by identifier.
type Engine struct {
	students    StudentStore
	guardians   GuardianStore
	enrollments EnrollmentStore
}

// NewEngine creates an import engine over the given stores
func NewEngine(students StudentStore, guardians GuardianStore, enrollments EnrollmentStore) *Engine {
	return &Engine{
		students:    students,
		guardians:   guardians,
		enrollments: enrollments,
	}
}

// ProcessTable runs every data row of a parsed file against the stores.
// Row-level validation failures are recorded and skipped; any store error
// aborts the whole job and propagates to the caller.
func (e *Engine) ProcessTable(ctx context.Context, schoolID string, table *Table, bundle *ReferenceBundle) (*Outcome, error) {
	header := ResolveHeader(table.Header)
	outcome := &Outcome{}

	seenAdmissions := make(map[string]bool)
	guardiansByPhone := make(map[string]*models.Guardian)
	guardiansByEmail := make(map[string]*models.Guardian)

	for _, row := range table.Rows {
		outcome.Processed++

		resolved, errs := ResolveRow(bundle, header, row)
		if len(errs) > 0 {
			outcome.reject(row, strings.Join(errs, "; "))
			continue
		}

		if seenAdmissions[resolved.AdmissionNo] {
			outcome.reject(row, ReasonDuplicateAdmission)
			continue
		}
		seenAdmissions[resolved.AdmissionNo] = true

		studentCreated, studentChanged, student, err := e.upsertStudent(ctx, schoolID, resolved)
		if err != nil {
			return nil, err
		}

		guardian, guardianChanged, err := e.resolveGuardian(ctx, schoolID, resolved, guardiansByPhone, guardiansByEmail)
		if err != nil {
			return nil, err
		}

		link := &models.StudentGuardianLink{
			StudentID:    student.ID,
			GuardianID:   guardian.ID,
			Relationship: models.RelationshipGuardian,
			IsPrimary:    true,
		}
		if err := e.guardians.UpsertLink(ctx, link); err != nil {
			return nil, err
		}

		if err := e.upsertEnrollment(ctx, student.ID, resolved); err != nil {
			return nil, err
		}

		switch {
		case studentCreated:
			outcome.Created++
		case studentChanged || guardianChanged:
			outcome.Updated++
		default:
			outcome.Skipped++
		}
	}

	logger.Debug().Str("schoolId", schoolID).
		Int("processed", outcome.Processed).
		Int("created", outcome.Created).
		Int("updated", outcome.Updated).
		Int("skipped", outcome.Skipped).
		Int("errors", len(outcome.RowErrors)).
		Msg("Table processed")

	return outcome, nil
}

// upsertStudent finds or creates the student behind an admission number and
// applies changed-field-only updates to an existing one.
func (e *Engine) upsertStudent(ctx context.Context, schoolID string, resolved *ResolvedRow) (created, changed bool, student *models.Student, err error) {
	student, err = e.students.GetByAdmissionNo(ctx, schoolID, resolved.AdmissionNo)
	if err != nil {
		return false, false, nil, err
	}

	if student == nil {
		student = &models.Student{
			ID:          uuid.New().String(),
			SchoolID:    schoolID,
			AdmissionNo: resolved.AdmissionNo,
			FirstName:   resolved.FirstName,
			LastName:    resolved.LastName,
			Status:      models.StudentActive,
		}
		created, err = e.students.CreateIfAbsent(ctx, student)
		if err != nil {
			return false, false, nil, err
		}
		if created {
			return true, false, student, nil
		}
		// A concurrent writer created the row; fall through and treat it
		// as an existing student
	}

	if resolved.FirstName != "" && student.FirstName != resolved.FirstName {
		student.FirstName = resolved.FirstName
		changed = true
	}
	if resolved.LastName != "" && student.LastName != resolved.LastName {
		student.LastName = resolved.LastName
		changed = true
	}
	if student.Status == "" {
		student.Status = models.StudentActive
		changed = true
	}

	if changed {
		if err := e.students.Update(ctx, student); err != nil {
			return false, false, nil, err
		}
	}

	return false, changed, student, nil
}

// resolveGuardian converges every row referencing the same human onto one
// guardian record: in-job phone map, in-job email map, persisted phone,
// persisted email, in that order; only then a create.
func (e *Engine) resolveGuardian(ctx context.Context, schoolID string, resolved *ResolvedRow, byPhone, byEmail map[string]*models.Guardian) (*models.Guardian, bool, error) {
	var guardian *models.Guardian

	if resolved.ParentPhone != "" {
		guardian = byPhone[resolved.ParentPhone]
	}
	if guardian == nil && resolved.ParentEmail != "" {
		guardian = byEmail[resolved.ParentEmail]
	}

	var err error
	if guardian == nil && resolved.ParentPhone != "" {
		guardian, err = e.guardians.GetByPhone(ctx, schoolID, resolved.ParentPhone)
		if err != nil {
			return nil, false, err
		}
	}
	if guardian == nil && resolved.ParentEmail != "" {
		guardian, err = e.guardians.GetByEmail(ctx, schoolID, resolved.ParentEmail)
		if err != nil {
			return nil, false, err
		}
	}

	changed := false

	if guardian == nil {
		guardian = &models.Guardian{
			ID:       uuid.New().String(),
			SchoolID: schoolID,
			FullName: resolved.ParentName,
			Phone:    resolved.ParentPhone,
			Email:    resolved.ParentEmail,
			Status:   models.GuardianActive,
		}
		created, err := e.guardians.CreateIfAbsent(ctx, guardian)
		if err != nil {
			return nil, false, err
		}
		_ = created // a lost race converges on the winner's row
	} else {
		if resolved.ParentName != "" && guardian.FullName != resolved.ParentName {
			guardian.FullName = resolved.ParentName
			changed = true
		}
		if resolved.ParentEmail != "" && guardian.Email != resolved.ParentEmail {
			guardian.Email = resolved.ParentEmail
			changed = true
		}
		if changed {
			if err := e.guardians.Update(ctx, guardian); err != nil {
				return nil, false, err
			}
		}
	}

	// Later rows referencing this guardian by either identifier converge
	// on the same record
	if resolved.ParentPhone != "" {
		byPhone[resolved.ParentPhone] = guardian
	}
	if resolved.ParentEmail != "" {
		byEmail[resolved.ParentEmail] = guardian
	}
	if guardian.Phone != "" {
		byPhone[guardian.Phone] = guardian
	}
	if guardian.Email != "" {
		byEmail[guardian.Email] = guardian
	}

	return guardian, changed, nil
}

// upsertEnrollment enforces at most one enrollment per (student, term):
// a second sighting updates the class group and session in place.
func (e *Engine) upsertEnrollment(ctx context.Context, studentID string, resolved *ResolvedRow) error {
	existing, err := e.enrollments.GetByStudentAndTerm(ctx, studentID, resolved.TermID)
	if err != nil {
		return err
	}

	if existing == nil {
		createErr := e.enrollments.Create(ctx, &models.Enrollment{
			ID:           uuid.New().String(),
			StudentID:    studentID,
			TermID:       resolved.TermID,
			ClassGroupID: resolved.ClassGroupID,
			SessionID:    resolved.SessionID,
			Status:       models.Enrolled,
		})
		if !errors.Is(createErr, apperrors.ErrConflict) {
			return createErr
		}
		// A concurrent writer won the insert; converge on its row
		existing, err = e.enrollments.GetByStudentAndTerm(ctx, studentID, resolved.TermID)
		if err != nil {
			return err
		}
		if existing == nil {
			return createErr
		}
	}

	if existing.ClassGroupID == resolved.ClassGroupID &&
		existing.SessionID == resolved.SessionID &&
		existing.Status == models.Enrolled {
		return nil
	}

	existing.ClassGroupID = resolved.ClassGroupID
	existing.SessionID = resolved.SessionID
	existing.Status = models.Enrolled
	return e.enrollments.Update(ctx, existing)
}
