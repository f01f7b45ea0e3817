package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightclass/roster/internal/app/models"
)

// AuditRepository appends to the audit_events table. Events are never
// updated or deleted.
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

// Append records a single audit event
func (r *AuditRepository) Append(ctx context.Context, event *models.AuditEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("error encoding audit payload: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, school_id, action, entity_type, entity_id, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = r.db.QueryRow(ctx, query,
		event.ID, event.SchoolID, event.Action,
		event.EntityType, event.EntityID, payload).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("error appending audit event: %w", err)
	}

	return nil
}
