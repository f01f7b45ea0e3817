package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightclass/roster/internal/app/models"
)

// GuardianRepository handles database operations for guardians and their
// links to students
type GuardianRepository struct {
	db *pgxpool.Pool
}

// NewGuardianRepository creates a new guardian repository
func NewGuardianRepository(db *pgxpool.Pool) *GuardianRepository {
	return &GuardianRepository{
		db: db,
	}
}

const guardianColumns = `id, school_id, full_name, phone, email, status`

func scanGuardian(row pgx.Row) (*models.Guardian, error) {
	var guardian models.Guardian
	err := row.Scan(
		&guardian.ID,
		&guardian.SchoolID,
		&guardian.FullName,
		&guardian.Phone,
		&guardian.Email,
		&guardian.Status,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving guardian: %w", err)
	}

	return &guardian, nil
}

// GetByPhone retrieves a guardian by normalized phone number.
// Returns (nil, nil) when no guardian exists.
func (r *GuardianRepository) GetByPhone(ctx context.Context, schoolID, phone string) (*models.Guardian, error) {
	if phone == "" {
		return nil, nil
	}

	query := `SELECT ` + guardianColumns + ` FROM guardians WHERE school_id = $1 AND phone = $2`
	return scanGuardian(r.db.QueryRow(ctx, query, schoolID, phone))
}

// GetByEmail retrieves a guardian by normalized email.
// Returns (nil, nil) when no guardian exists.
func (r *GuardianRepository) GetByEmail(ctx context.Context, schoolID, email string) (*models.Guardian, error) {
	if email == "" {
		return nil, nil
	}

	query := `SELECT ` + guardianColumns + ` FROM guardians WHERE school_id = $1 AND email = $2`
	return scanGuardian(r.db.QueryRow(ctx, query, schoolID, email))
}

// CreateIfAbsent inserts a guardian unless one already holds the same
// normalized phone or email within the school. Returns true when this call
// created the row; on a lost race the existing row is copied into the struct.
func (r *GuardianRepository) CreateIfAbsent(ctx context.Context, guardian *models.Guardian) (bool, error) {
	query := `
		INSERT INTO guardians (id, school_id, full_name, phone, email, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query,
		guardian.ID, guardian.SchoolID, guardian.FullName,
		guardian.Phone, guardian.Email, guardian.Status)
	if err != nil {
		return false, fmt.Errorf("error creating guardian: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// A concurrent writer won the insert; converge on its row
	existing, err := r.GetByPhone(ctx, guardian.SchoolID, guardian.Phone)
	if err != nil {
		return false, err
	}
	if existing == nil {
		existing, err = r.GetByEmail(ctx, guardian.SchoolID, guardian.Email)
		if err != nil {
			return false, err
		}
	}
	if existing == nil {
		return false, fmt.Errorf("guardian vanished after conflicting insert")
	}

	*guardian = *existing
	return false, nil
}

// Update updates the mutable fields of an existing guardian
func (r *GuardianRepository) Update(ctx context.Context, guardian *models.Guardian) error {
	query := `
		UPDATE guardians
		SET full_name = $1, email = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, guardian.FullName, guardian.Email, guardian.ID)
	if err != nil {
		return fmt.Errorf("error updating guardian: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return errors.New("guardian not found")
	}

	return nil
}

// UpsertLink writes a student-guardian link, idempotent by
// (student_id, guardian_id)
func (r *GuardianRepository) UpsertLink(ctx context.Context, link *models.StudentGuardianLink) error {
	query := `
		INSERT INTO student_guardians (student_id, guardian_id, relationship, is_primary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, guardian_id)
		DO UPDATE SET relationship = EXCLUDED.relationship, is_primary = EXCLUDED.is_primary
	`

	_, err := r.db.Exec(ctx, query,
		link.StudentID, link.GuardianID, link.Relationship, link.IsPrimary)
	if err != nil {
		return fmt.Errorf("error linking student to guardian: %w", err)
	}

	return nil
}
