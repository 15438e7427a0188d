package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntityTypeTrip is the audit discriminator for trip records. It is the
// only entity type this service writes today; the field exists so the
// audit table can be shared by future entities without a schema change.
const EntityTypeTrip = "trip"

// AuditAction enumerates the mutations the audit log records.
type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionUpdate     AuditAction = "update"
	AuditActionSoftDelete AuditAction = "soft_delete"
	AuditActionHardDelete AuditAction = "hard_delete"
)

// Valid reports whether a is one of the known audit actions.
func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionSoftDelete, AuditActionHardDelete:
		return true
	}
	return false
}

// AuditEntry describes one committed mutation to one entity.
// Entries are append-only: nothing in this service updates or deletes them.
type AuditEntry struct {
	ID         uuid.UUID   `json:"id"`
	EntityType string      `json:"entity_type"`
	EntityID   uuid.UUID   `json:"entity_id"`
	Action     AuditAction `json:"action"`
	Actor      Identity    `json:"actor"`

	// Before and After are opaque snapshots of the entity around the
	// mutation. Either may be nil (create has no before, hard delete no
	// after).
	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`

	SourceIP    string    `json:"source_ip"`
	SourceAgent string    `json:"source_agent"`
	Timestamp   time.Time `json:"timestamp"`
}

// AuditFilter selects audit entries in a Query call. Nil fields match
// everything.
type AuditFilter struct {
	EntityID *uuid.UUID
	Action   *AuditAction
	From     *time.Time
	To       *time.Time
}

// AuditSummary is the caller-facing outcome of the audit step of a
// mutation. Recorded is false when the append failed; the mutation's own
// outcome is unaffected, audit writes are best-effort.
type AuditSummary struct {
	Action    AuditAction `json:"action"`
	Recorded  bool        `json:"recorded"`
	Timestamp time.Time   `json:"timestamp"`
}

// Provenance carries request origin metadata into audit entries.
// Both fields are free text and are never used for authorization.
type Provenance struct {
	SourceIP    string
	SourceAgent string
}
