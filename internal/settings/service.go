package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"engagement-platform/internal/audit"
)

var ErrInvalidRequest = errors.New("settings: invalid request")

// Service owns the configuration store: idempotent default seeding at
// process start, name-keyed reads and writes, and the typed voice-settings
// view consumed by the TTS integration.

type Service struct {
	repo  Repository
	audit *audit.Service
	clock func() time.Time
	log   *slog.Logger
}

func NewService(repo Repository, auditSvc *audit.Service, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, audit: auditSvc, clock: time.Now, log: log}
}

type seedDefault struct {
	name        string
	category    string
	value       string
	description string
}

var seedDefaults = []seedDefault{
	{KeyTTSProvider, "voice", DefaultTTSProvider, "Text-to-speech provider"},
	{KeyTTSVoice, "voice", DefaultTTSVoice, "Voice preset for the TTS provider"},
	{KeyFillerFrequency, "humanization", "0.15", "How often filler words are injected (0-1)"},
	{KeyBackchannelFrequency, "humanization", "0.1", "How often backchannel cues are injected (0-1)"},
	{KeySpeechRate, "voice", "1.0", "Speech rate multiplier"},
}

// Seed inserts the default entries that are absent. It is idempotent and is
// invoked once at process start; existing values are never overwritten.
func (s *Service) Seed(ctx context.Context) error {
	now := s.clock().UTC()
	for _, d := range seedDefaults {
		_, err := s.repo.Get(ctx, d.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("settings: seed lookup %s: %w", d.name, err)
		}
		e := Entry{
			Name:           d.name,
			Category:       d.category,
			Value:          d.value,
			Description:    d.description,
			IsActive:       true,
			LastModifiedBy: "system",
			UpdatedAt:      now,
		}
		if err := s.repo.Upsert(ctx, e); err != nil {
			return fmt.Errorf("settings: seed %s: %w", d.name, err)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, name string) (Entry, error) {
	if name == "" {
		return Entry{}, ErrInvalidRequest
	}
	return s.repo.Get(ctx, name)
}

func (s *Service) List(ctx context.Context, category string) ([]Entry, error) {
	return s.repo.List(ctx, category)
}

type SetRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Set writes an entry by name, creating it if absent, and audits the change.
func (s *Service) Set(ctx context.Context, req SetRequest, actorUserID, actorRole string) (Entry, error) {
	if req.Name == "" || req.Value == "" {
		return Entry{}, ErrInvalidRequest
	}

	e, err := s.repo.Get(ctx, req.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Entry{}, err
	}

	e.Name = req.Name
	e.Value = req.Value
	if req.Category != "" {
		e.Category = req.Category
	}
	if req.Description != "" {
		e.Description = req.Description
	}
	e.IsActive = true
	e.LastModifiedBy = actorUserID
	e.UpdatedAt = s.clock().UTC()

	if err := s.repo.Upsert(ctx, e); err != nil {
		return Entry{}, err
	}
	s.auditChange(ctx, actorUserID, actorRole, e.Name, `{"action":"set"}`)
	return e, nil
}

// Deactivate marks an entry inactive. Entries are never physically deleted.
func (s *Service) Deactivate(ctx context.Context, name, actorUserID, actorRole string) (Entry, error) {
	if name == "" {
		return Entry{}, ErrInvalidRequest
	}
	e, err := s.repo.Get(ctx, name)
	if err != nil {
		return Entry{}, err
	}
	e.IsActive = false
	e.LastModifiedBy = actorUserID
	e.UpdatedAt = s.clock().UTC()
	if err := s.repo.Upsert(ctx, e); err != nil {
		return Entry{}, err
	}
	s.auditChange(ctx, actorUserID, actorRole, name, `{"action":"deactivate"}`)
	return e, nil
}

// Voice assembles the typed voice-settings view. Missing or inactive keys
// fall back to defaults; malformed numeric values do too.
func (s *Service) Voice(ctx context.Context) VoiceSettings {
	out := VoiceSettings{
		TTSProvider:          s.stringValue(ctx, KeyTTSProvider, DefaultTTSProvider),
		TTSVoice:             s.stringValue(ctx, KeyTTSVoice, DefaultTTSVoice),
		FillerFrequency:      s.floatValue(ctx, KeyFillerFrequency, DefaultFillerFrequency),
		BackchannelFrequency: s.floatValue(ctx, KeyBackchannelFrequency, DefaultBackchannelFrequency),
		SpeechRate:           s.floatValue(ctx, KeySpeechRate, DefaultSpeechRate),
	}
	return out
}

func (s *Service) stringValue(ctx context.Context, name, fallback string) string {
	e, err := s.repo.Get(ctx, name)
	if err != nil || !e.IsActive || e.Value == "" {
		return fallback
	}
	return e.Value
}

func (s *Service) floatValue(ctx context.Context, name string, fallback float64) float64 {
	e, err := s.repo.Get(ctx, name)
	if err != nil || !e.IsActive {
		return fallback
	}
	v, err := strconv.ParseFloat(e.Value, 64)
	if err != nil {
		s.log.Warn("config value is not numeric", "name", name, "value", e.Value)
		return fallback
	}
	return v
}

func (s *Service) auditChange(ctx context.Context, actorUserID, actorRole, name, metadata string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogConfigChanged(ctx, actorUserID, actorRole, name, metadata); err != nil {
		s.log.Warn("audit append failed", "name", name, "err", err)
	}
}
