package models

import "time"

// AuditEvent is an append-only record of a significant system action
type AuditEvent struct {
	ID         string                 `json:"id" db:"id"`
	SchoolID   string                 `json:"schoolId" db:"school_id"`
	Action     string                 `json:"action" db:"action"`
	EntityType string                 `json:"entityType" db:"entity_type"`
	EntityID   string                 `json:"entityId" db:"entity_id"`
	Payload    map[string]interface{} `json:"payload" db:"payload"`
	CreatedAt  time.Time              `json:"createdAt" db:"created_at"`
}
