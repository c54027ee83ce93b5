package messages

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"engagement-platform/internal/audit"
	"engagement-platform/internal/events"
)

var ErrInvalidRequest = errors.New("messages: invalid request")

// CallLinker maintains the message-reference list on linked call records.
// A missing call must not be treated as an error by implementations.

type CallLinker interface {
	AttachMessage(ctx context.Context, callID, messageID string) error
	DetachMessage(ctx context.Context, callID, messageID string) error
}

// Service owns the message record lifecycle: idempotent creation, webhook
// status advancement, and admin deletion with call-reference detachment.

type Service struct {
	repo   Repository
	linker CallLinker
	pub    events.Publisher
	audit  *audit.Service
	clock  func() time.Time
	log    *slog.Logger
}

func NewService(repo Repository, linker CallLinker, pub events.Publisher, auditSvc *audit.Service, log *slog.Logger) *Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, linker: linker, pub: pub, audit: auditSvc, clock: time.Now, log: log}
}

type CreateRequest struct {
	MessageID    string      `json:"messageId"`
	CallID       string      `json:"callId"`
	Phone        string      `json:"phone"`
	CustomerName string      `json:"customerName"`
	Direction    Direction   `json:"direction"`
	Type         MessageType `json:"type"`
	Content      string      `json:"content"`
	Status       Status      `json:"status"`
}

// Create inserts a message record. It is idempotent on MessageID: a duplicate
// returns the pre-existing record unchanged with alreadyExists = true, never
// erroring and never duplicating.
func (s *Service) Create(ctx context.Context, req CreateRequest) (msg Message, alreadyExists bool, err error) {
	if req.MessageID == "" || req.Phone == "" || req.Content == "" {
		return Message{}, false, ErrInvalidRequest
	}
	if req.Direction == "" {
		req.Direction = DirectionOutbound
	}
	if req.Type == "" {
		req.Type = TypeText
	}
	if !req.Direction.Valid() || !req.Type.Valid() {
		return Message{}, false, ErrInvalidRequest
	}
	if req.Status != "" && !req.Status.Valid() {
		return Message{}, false, ErrInvalidRequest
	}
	if req.CustomerName == "" {
		req.CustomerName = DefaultCustomerName
	}

	existing, err := s.repo.Get(ctx, req.MessageID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Message{}, false, err
	}

	now := s.clock().UTC()
	m := Message{
		MessageID:    req.MessageID,
		CallID:       req.CallID,
		Phone:        req.Phone,
		CustomerName: req.CustomerName,
		Direction:    req.Direction,
		Type:         req.Type,
		Content:      req.Content,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Status != "" {
		ApplyStatus(&m, req.Status, now, nil)
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		return Message{}, false, err
	}

	if m.CallID != "" && s.linker != nil {
		if err := s.linker.AttachMessage(ctx, m.CallID, m.MessageID); err != nil {
			s.log.Warn("call linkage failed", "messageId", m.MessageID, "callId", m.CallID, "err", err)
		}
	}

	s.notify(ctx, "message.created", m)
	return m, false, nil
}

func (s *Service) Get(ctx context.Context, messageID string) (Message, error) {
	if messageID == "" {
		return Message{}, ErrInvalidRequest
	}
	return s.repo.Get(ctx, messageID)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Message, int, error) {
	return s.repo.List(ctx, f)
}

// UpdateStatus advances (or rewrites) the delivery status, typically from a
// provider webhook callback. The fill-once timestamp rule is applied; an
// error payload, when supplied, replaces the previous one wholesale.
func (s *Service) UpdateStatus(ctx context.Context, messageID string, status Status, deliveryErr *DeliveryError) (Message, error) {
	if messageID == "" || !status.Valid() {
		return Message{}, ErrInvalidRequest
	}

	m, err := s.repo.Get(ctx, messageID)
	if err != nil {
		return Message{}, err
	}

	now := s.clock().UTC()
	ApplyStatus(&m, status, now, deliveryErr)
	m.UpdatedAt = now

	if err := s.repo.Upsert(ctx, m); err != nil {
		return Message{}, err
	}
	s.notify(ctx, "message.status", m)
	return m, nil
}

// Delete removes a record by explicit admin action. The message id is
// detached from any linked call record; the call record itself survives.
func (s *Service) Delete(ctx context.Context, messageID, actorUserID, actorRole string) error {
	if messageID == "" {
		return ErrInvalidRequest
	}

	m, err := s.repo.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, messageID); err != nil {
		return err
	}

	if m.CallID != "" && s.linker != nil {
		if err := s.linker.DetachMessage(ctx, m.CallID, messageID); err != nil {
			s.log.Warn("call detach failed", "messageId", messageID, "callId", m.CallID, "err", err)
		}
	}
	if s.audit != nil {
		if err := s.audit.LogRecordDeleted(ctx, actorUserID, actorRole, "message", messageID); err != nil {
			s.log.Warn("audit append failed", "messageId", messageID, "err", err)
		}
	}
	s.notify(ctx, "message.deleted", Message{MessageID: messageID})
	return nil
}

func (s *Service) notify(ctx context.Context, event string, m Message) {
	err := s.pub.Publish(ctx, events.Event{
		Type:       event,
		Entity:     "message",
		ID:         m.MessageID,
		Payload:    m,
		OccurredAt: s.clock().UTC(),
	})
	if err != nil {
		s.log.Warn("event publish failed", "event", event, "messageId", m.MessageID, "err", err)
	}
}
