package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"engagement-platform/internal/audit"
)

func newTestService(repo Repository) (*Service, *audit.MemoryRepo) {
	auditRepo := audit.NewMemoryRepo()
	svc := NewService(repo, audit.NewService(auditRepo), nil)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc, auditRepo
}

func TestSeed_IsIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	e, err := repo.Get(ctx, KeyTTSProvider)
	if err != nil {
		t.Fatalf("expected tts_provider seeded: %v", err)
	}
	if e.Value != DefaultTTSProvider {
		t.Fatalf("expected default %q, got %q", DefaultTTSProvider, e.Value)
	}

	// a user-modified value survives re-seeding
	e.Value = "elevenlabs"
	if err := repo.Upsert(ctx, e); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	e, _ = repo.Get(ctx, KeyTTSProvider)
	if e.Value != "elevenlabs" {
		t.Fatalf("re-seed overwrote user value: %q", e.Value)
	}
}

func TestSet_CreatesAndAudits(t *testing.T) {
	svc, auditRepo := newTestService(NewMemoryRepo())
	ctx := context.Background()

	e, err := svc.Set(ctx, SetRequest{Name: "greeting_style", Category: "voice", Value: "warm"}, "admin-1", "admin")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !e.IsActive || e.LastModifiedBy != "admin-1" {
		t.Fatalf("unexpected entry: %+v", e)
	}

	trail := auditRepo.Events()
	if len(trail) != 1 || trail[0].Type != audit.EventTypeConfigChanged {
		t.Fatalf("expected config change audited, got %+v", trail)
	}
}

func TestSet_Validation(t *testing.T) {
	svc, _ := newTestService(NewMemoryRepo())
	if _, err := svc.Set(context.Background(), SetRequest{Value: "x"}, "a", "admin"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestDeactivate_KeepsEntry(t *testing.T) {
	repo := NewMemoryRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Set(ctx, SetRequest{Name: "k", Value: "v"}, "a", "admin"); err != nil {
		t.Fatalf("set: %v", err)
	}
	e, err := svc.Deactivate(ctx, "k", "a", "admin")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if e.IsActive {
		t.Fatalf("expected inactive")
	}
	// still present in the store
	if _, err := repo.Get(ctx, "k"); err != nil {
		t.Fatalf("entry must not be deleted: %v", err)
	}
}

func TestVoice_FallsBackToDefaults(t *testing.T) {
	svc, _ := newTestService(NewMemoryRepo())
	v := svc.Voice(context.Background())
	if v.TTSProvider != "openai" {
		t.Fatalf("expected default provider openai, got %q", v.TTSProvider)
	}
	if v.FillerFrequency != 0.15 {
		t.Fatalf("expected default filler frequency 0.15, got %v", v.FillerFrequency)
	}
}

func TestVoice_ReadsSeededAndSetValues(t *testing.T) {
	svc, _ := newTestService(NewMemoryRepo())
	ctx := context.Background()
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Set(ctx, SetRequest{Name: KeyFillerFrequency, Value: "0.3"}, "a", "admin"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v := svc.Voice(ctx)
	if v.FillerFrequency != 0.3 {
		t.Fatalf("expected 0.3, got %v", v.FillerFrequency)
	}
	if v.SpeechRate != 1.0 {
		t.Fatalf("expected seeded speech rate 1.0, got %v", v.SpeechRate)
	}
}

func TestVoice_MalformedNumberFallsBack(t *testing.T) {
	svc, _ := newTestService(NewMemoryRepo())
	ctx := context.Background()
	if _, err := svc.Set(ctx, SetRequest{Name: KeyFillerFrequency, Value: "often"}, "a", "admin"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v := svc.Voice(ctx); v.FillerFrequency != 0.15 {
		t.Fatalf("expected fallback 0.15, got %v", v.FillerFrequency)
	}
}
