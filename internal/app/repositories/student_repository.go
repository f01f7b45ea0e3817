package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightclass/roster/internal/app/models"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// GetByAdmissionNo retrieves a student by its tenant-scoped admission number.
// Returns (nil, nil) when no student exists.
func (r *StudentRepository) GetByAdmissionNo(ctx context.Context, schoolID, admissionNo string) (*models.Student, error) {
	query := `
		SELECT id, school_id, admission_no, first_name, last_name, status
		FROM students
		WHERE school_id = $1 AND admission_no = $2
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, schoolID, admissionNo).Scan(
		&student.ID,
		&student.SchoolID,
		&student.AdmissionNo,
		&student.FirstName,
		&student.LastName,
		&student.Status,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// CreateIfAbsent inserts a student unless one already exists for the same
// (school, admission number). Returns true when this call created the row;
// on a lost race the existing row's ID is copied into the struct.
func (r *StudentRepository) CreateIfAbsent(ctx context.Context, student *models.Student) (bool, error) {
	query := `
		INSERT INTO students (id, school_id, admission_no, first_name, last_name, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (school_id, admission_no) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query,
		student.ID, student.SchoolID, student.AdmissionNo,
		student.FirstName, student.LastName, student.Status)
	if err != nil {
		return false, fmt.Errorf("error creating student: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return true, nil
	}

	existing, err := r.GetByAdmissionNo(ctx, student.SchoolID, student.AdmissionNo)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, fmt.Errorf("student %s vanished after conflicting insert", student.AdmissionNo)
	}

	*student = *existing
	return false, nil
}

// Update updates the mutable fields of an existing student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET first_name = $1, last_name = $2, status = $3
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query,
		student.FirstName, student.LastName, student.Status, student.ID)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return errors.New("student not found")
	}

	return nil
}
