package audit

import "time"

// Event is an immutable, append-only trail record of an admin action.
//
// Invariants:
// - Events are never updated or deleted.
// - Audit capture is best-effort; critical flows must not block on it.
//
// Storage recommendation (Postgres): an INSERT-only audit_events table,
// optionally partitioned by time for retention.

type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated admin causing the event.
	ActorUserID string `json:"actorUserId,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actorRole,omitempty" db:"actor_role"`

	// RecordKind and RecordID identify the affected entity
	// ("call", "message", "config").
	RecordKind string `json:"recordKind,omitempty" db:"record_kind"`
	RecordID   string `json:"recordId,omitempty" db:"record_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON with full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type EventType string

const (
	EventTypeRecordDeleted EventType = "record_deleted"
	EventTypeConfigChanged EventType = "config_changed"
)
