package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightclass/roster/internal/app/models"
)

// ReferenceRepository reads the lookup tables owned by the admin product.
// The importer never writes through this repository.
type ReferenceRepository struct {
	db *pgxpool.Pool
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{
		db: db,
	}
}

// ListClassYears retrieves all class years for a school
func (r *ReferenceRepository) ListClassYears(ctx context.Context, schoolID string) ([]*models.ClassYear, error) {
	rows, err := r.db.Query(ctx, `SELECT id, school_id, name FROM class_years WHERE school_id = $1`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error listing class years: %w", err)
	}
	defer rows.Close()

	var years []*models.ClassYear
	for rows.Next() {
		var year models.ClassYear
		if err := rows.Scan(&year.ID, &year.SchoolID, &year.Name); err != nil {
			return nil, err
		}
		years = append(years, &year)
	}

	return years, rows.Err()
}

// ListClassArms retrieves all class arms for a school
func (r *ReferenceRepository) ListClassArms(ctx context.Context, schoolID string) ([]*models.ClassArm, error) {
	rows, err := r.db.Query(ctx, `SELECT id, school_id, name FROM class_arms WHERE school_id = $1`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error listing class arms: %w", err)
	}
	defer rows.Close()

	var arms []*models.ClassArm
	for rows.Next() {
		var arm models.ClassArm
		if err := rows.Scan(&arm.ID, &arm.SchoolID, &arm.Name); err != nil {
			return nil, err
		}
		arms = append(arms, &arm)
	}

	return arms, rows.Err()
}

// ListClassGroups retrieves all class groups for a school
func (r *ReferenceRepository) ListClassGroups(ctx context.Context, schoolID string) ([]*models.ClassGroup, error) {
	query := `
		SELECT id, school_id, name, class_year_id, class_arm_id
		FROM class_groups
		WHERE school_id = $1
	`

	rows, err := r.db.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error listing class groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.ClassGroup
	for rows.Next() {
		var group models.ClassGroup
		var armID sql.NullString
		if err := rows.Scan(&group.ID, &group.SchoolID, &group.Name, &group.ClassYearID, &armID); err != nil {
			return nil, err
		}
		group.ClassArmID = armID.String
		groups = append(groups, &group)
	}

	return groups, rows.Err()
}

// ListSessions retrieves all sessions for a school
func (r *ReferenceRepository) ListSessions(ctx context.Context, schoolID string) ([]*models.Session, error) {
	rows, err := r.db.Query(ctx, `SELECT id, school_id, name FROM sessions WHERE school_id = $1`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(&session.ID, &session.SchoolID, &session.Name); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

// ListTermsBySession retrieves all terms under a session
func (r *ReferenceRepository) ListTermsBySession(ctx context.Context, sessionID string) ([]*models.Term, error) {
	rows, err := r.db.Query(ctx, `SELECT id, session_id, name FROM terms WHERE session_id = $1`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error listing terms: %w", err)
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		var term models.Term
		if err := rows.Scan(&term.ID, &term.SessionID, &term.Name); err != nil {
			return nil, err
		}
		terms = append(terms, &term)
	}

	return terms, rows.Err()
}
