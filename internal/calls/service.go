package calls

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"engagement-platform/internal/audit"
	"engagement-platform/internal/events"
)

var ErrInvalidRequest = errors.New("calls: invalid request")

// Service owns the call record lifecycle: validation, derived-field
// recomputation, persistence, and change notification.
//
// Derivation never fails; only input validation and store I/O produce error
// outcomes. Event publishing is fire-and-forget: failures are logged and
// swallowed.

type Service struct {
	repo  Repository
	pub   events.Publisher
	audit *audit.Service
	clock func() time.Time
	log   *slog.Logger
}

func NewService(repo Repository, pub events.Publisher, auditSvc *audit.Service, log *slog.Logger) *Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, pub: pub, audit: auditSvc, clock: time.Now, log: log}
}

// StartRequest creates a record at call start.

type StartRequest struct {
	CallID    string    `json:"callId"`
	Type      CallType  `json:"type"`
	Caller    string    `json:"caller"`
	Receiver  string    `json:"receiver"`
	StartTime time.Time `json:"startTime"`
	Language  Language  `json:"language"`
}

// UpdateRequest mutates a record mid-call or at call end. Nil fields are
// left untouched; the derived fields are always recomputed on save.

type UpdateRequest struct {
	Status            *Status        `json:"status,omitempty"`
	EndTime           *time.Time     `json:"endTime,omitempty"`
	Transcript        *string        `json:"transcript,omitempty"`
	AudioFile         *string        `json:"audioFile,omitempty"`
	Language          *Language      `json:"language,omitempty"`
	InterruptionCount *int           `json:"interruptionCount,omitempty"`
	Satisfaction      *Satisfaction  `json:"satisfaction,omitempty"`
	Sales             *SalesInsights `json:"sales,omitempty"`
}

func (s *Service) Start(ctx context.Context, req StartRequest) (Call, error) {
	if req.CallID == "" || req.Caller == "" || req.Receiver == "" {
		return Call{}, ErrInvalidRequest
	}
	if req.Type == "" {
		req.Type = TypeOutbound
	}
	if !req.Type.Valid() {
		return Call{}, ErrInvalidRequest
	}

	now := s.clock().UTC()
	if req.StartTime.IsZero() {
		req.StartTime = now
	}

	c := Call{
		CallID:    req.CallID,
		Type:      req.Type,
		Caller:    req.Caller,
		Receiver:  req.Receiver,
		StartTime: req.StartTime,
		Status:    StatusInProgress,
		Language:  req.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ApplyDerived(&c)

	if err := s.repo.Upsert(ctx, c); err != nil {
		return Call{}, err
	}
	s.notify(ctx, "call.started", c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, callID string) (Call, error) {
	if callID == "" {
		return Call{}, ErrInvalidRequest
	}
	return s.repo.Get(ctx, callID)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Call, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, callID string, req UpdateRequest) (Call, error) {
	if callID == "" {
		return Call{}, ErrInvalidRequest
	}
	if req.Status != nil && !req.Status.Valid() {
		return Call{}, ErrInvalidRequest
	}

	c, err := s.repo.Get(ctx, callID)
	if err != nil {
		return Call{}, err
	}

	if req.Status != nil {
		c.Status = *req.Status
	}
	if req.EndTime != nil {
		t := req.EndTime.UTC()
		c.EndTime = &t
	}
	if req.Transcript != nil {
		c.Transcript = *req.Transcript
	}
	if req.AudioFile != nil {
		c.AudioFile = *req.AudioFile
	}
	if req.Language != nil {
		c.Language = *req.Language
	}
	if req.InterruptionCount != nil {
		c.InterruptionCount = *req.InterruptionCount
	}
	if req.Satisfaction != nil {
		c.Satisfaction = *req.Satisfaction
	}
	if req.Sales != nil {
		c.Sales = req.Sales
	}
	c.UpdatedAt = s.clock().UTC()

	ApplyDerived(&c)

	if err := s.repo.Upsert(ctx, c); err != nil {
		return Call{}, err
	}

	event := "call.updated"
	if c.EndTime != nil && c.Status != StatusInProgress {
		event = "call.ended"
	}
	s.notify(ctx, event, c)
	return c, nil
}

// End resolves a call: terminal status, end timestamp, final content.
// It is a convenience wrapper over Update that defaults EndTime to now.
func (s *Service) End(ctx context.Context, callID string, req UpdateRequest) (Call, error) {
	if req.Status == nil {
		st := StatusSuccess
		req.Status = &st
	}
	if *req.Status == StatusInProgress {
		return Call{}, ErrInvalidRequest
	}
	if req.EndTime == nil {
		now := s.clock().UTC()
		req.EndTime = &now
	}
	return s.Update(ctx, callID, req)
}

// Delete removes a record by explicit admin action and audits the deletion.
func (s *Service) Delete(ctx context.Context, callID, actorUserID, actorRole string) error {
	if callID == "" {
		return ErrInvalidRequest
	}
	if err := s.repo.Delete(ctx, callID); err != nil {
		return err
	}
	if s.audit != nil {
		if err := s.audit.LogRecordDeleted(ctx, actorUserID, actorRole, "call", callID); err != nil {
			s.log.Warn("audit append failed", "callId", callID, "err", err)
		}
	}
	s.notify(ctx, "call.deleted", Call{CallID: callID})
	return nil
}

// AttachMessage links a message record to this call's reference list.
// A missing call is not an error: linkage is optional.
func (s *Service) AttachMessage(ctx context.Context, callID, messageID string) error {
	err := s.repo.AttachMessage(ctx, callID, messageID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// DetachMessage removes a deleted message's id from the call's reference
// list. The call record itself is never deleted by this path.
func (s *Service) DetachMessage(ctx context.Context, callID, messageID string) error {
	err := s.repo.DetachMessage(ctx, callID, messageID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *Service) notify(ctx context.Context, event string, c Call) {
	err := s.pub.Publish(ctx, events.Event{
		Type:       event,
		Entity:     "call",
		ID:         c.CallID,
		Payload:    c,
		OccurredAt: s.clock().UTC(),
	})
	if err != nil {
		s.log.Warn("event publish failed", "event", event, "callId", c.CallID, "err", err)
	}
}
