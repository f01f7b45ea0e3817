package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/pkg/apperrors"
	"github.com/brightclass/roster/internal/pkg/dberrors"
)

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// GetByStudentAndTerm retrieves the enrollment for a student in a term.
// Returns (nil, nil) when none exists.
func (r *EnrollmentRepository) GetByStudentAndTerm(ctx context.Context, studentID, termID string) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, term_id, class_group_id, session_id, status
		FROM enrollments
		WHERE student_id = $1 AND term_id = $2
	`

	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, studentID, termID).Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.TermID,
		&enrollment.ClassGroupID,
		&enrollment.SessionID,
		&enrollment.Status,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// Create creates a new enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, student_id, term_id, class_group_id, session_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		enrollment.ID, enrollment.StudentID, enrollment.TermID,
		enrollment.ClassGroupID, enrollment.SessionID, enrollment.Status)
	if err != nil {
		// A concurrent worker inserted the same (student, term) first
		if dberrors.IsDuplicateConstraintError(err, "enrollments_student_term_key") {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// Update updates an existing enrollment's class group, session and status
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET class_group_id = $1, session_id = $2, status = $3
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query,
		enrollment.ClassGroupID, enrollment.SessionID, enrollment.Status, enrollment.ID)
	if err != nil {
		return fmt.Errorf("error updating enrollment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return errors.New("enrollment not found")
	}

	return nil
}
