package settings

import "time"

// Entry is one named configuration value.
//
// Invariants:
// - Name is the unique key.
// - Entries are never physically deleted, only deactivated.

type Entry struct {
	Name           string    `json:"name" db:"name"`
	Category       string    `json:"category" db:"category"`
	Value          string    `json:"value" db:"value"`
	Description    string    `json:"description,omitempty" db:"description"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	LastModifiedBy string    `json:"lastModifiedBy,omitempty" db:"last_modified_by"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Known voice/humanization keys consulted by the voice pipeline. Missing keys
// fall back to the defaults below instead of erroring.
const (
	KeyTTSProvider          = "tts_provider"
	KeyTTSVoice             = "tts_voice"
	KeyFillerFrequency      = "filler_frequency"
	KeyBackchannelFrequency = "backchannel_frequency"
	KeySpeechRate           = "speech_rate"
)

const (
	DefaultTTSProvider          = "openai"
	DefaultTTSVoice             = "alloy"
	DefaultFillerFrequency      = 0.15
	DefaultBackchannelFrequency = 0.1
	DefaultSpeechRate           = 1.0
)

// VoiceSettings is the typed view over the voice/humanization keys, consumed
// by the (external) TTS provider integration.

type VoiceSettings struct {
	TTSProvider          string  `json:"ttsProvider"`
	TTSVoice             string  `json:"ttsVoice"`
	FillerFrequency      float64 `json:"fillerFrequency"`
	BackchannelFrequency float64 `json:"backchannelFrequency"`
	SpeechRate           float64 `json:"speechRate"`
}
