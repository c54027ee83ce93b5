package audit

import (
	"context"
	"testing"
	"time"
)

func newTestService(repo *MemoryRepo) *Service {
	s := NewService(repo)
	s.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return s
}

func TestAppendFillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(repo)

	err := s.Append(context.Background(), Event{Type: EventTypeRecordDeleted})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected one event, got %d", len(evs))
	}
	if evs[0].ID == "" {
		t.Fatalf("expected generated id")
	}
	if !evs[0].CreatedAt.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Fatalf("expected clock timestamp, got %v", evs[0].CreatedAt)
	}
}

func TestAppendRejectsMissingType(t *testing.T) {
	s := newTestService(NewMemoryRepo())
	if err := s.Append(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error for missing type")
	}
}

func TestLogRecordDeleted(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(repo)

	if err := s.LogRecordDeleted(context.Background(), "admin-1", "admin", "call", "call-9"); err != nil {
		t.Fatalf("log: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected one event, got %d", len(evs))
	}
	e := evs[0]
	if e.Type != EventTypeRecordDeleted || e.RecordKind != "call" || e.RecordID != "call-9" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.ActorUserID != "admin-1" || e.ActorRole != "admin" {
		t.Fatalf("unexpected actor: %+v", e)
	}
}

func TestLogConfigChangedCarriesMetadata(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(repo)

	if err := s.LogConfigChanged(context.Background(), "admin-1", "admin", "tts_voice", `{"value":"alloy"}`); err != nil {
		t.Fatalf("log: %v", err)
	}
	e := repo.Events()[0]
	if e.Type != EventTypeConfigChanged || e.RecordID != "tts_voice" || e.Metadata == "" {
		t.Fatalf("unexpected event: %+v", e)
	}
}
