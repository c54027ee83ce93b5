package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It MUST be append-only; no Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records internal audit information. Callers treat audit logging as
// best-effort: a failed append is logged, never propagated to the user.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogRecordDeleted records an explicit admin deletion of a stored record.
func (s *Service) LogRecordDeleted(ctx context.Context, actorUserID, actorRole, kind, id string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeRecordDeleted,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		RecordKind:  kind,
		RecordID:    id,
		Message:     "record deleted",
	})
}

// LogConfigChanged records a configuration write.
func (s *Service) LogConfigChanged(ctx context.Context, actorUserID, actorRole, name, metadata string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeConfigChanged,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		RecordKind:  "config",
		RecordID:    name,
		Message:     "config entry changed",
		Metadata:    metadata,
	})
}
