package calls

import "time"

// Call is a persisted record of a single voice interaction.
//
// Invariants:
// - CallID is unique and required.
// - DurationSeconds is derived: floor(endTime - startTime) in seconds whenever
//   both timestamps are present. It is recomputed on every save, never written
//   directly by callers.
// - Sales.BANTScore is derived: the sum of the four breakdown components,
//   recomputed on every save while a breakdown is present.
//
// Records are created at call start with StatusInProgress and mutated as the
// call progresses. They are never hard-deleted except by explicit admin action.

type Call struct {
	CallID string   `json:"callId" db:"call_id"`
	Type   CallType `json:"type" db:"type"`

	Caller   string `json:"caller" db:"caller"`
	Receiver string `json:"receiver" db:"receiver"`

	StartTime time.Time  `json:"startTime" db:"start_time"`
	EndTime   *time.Time `json:"endTime,omitempty" db:"end_time"`

	// DurationSeconds is derived from the timestamps above.
	DurationSeconds int `json:"duration" db:"duration"`

	Status Status `json:"status" db:"status"`

	Transcript        string       `json:"transcript,omitempty" db:"transcript"`
	AudioFile         string       `json:"audioFile,omitempty" db:"audio_file"`
	Language          Language     `json:"language,omitempty" db:"language"`
	InterruptionCount int          `json:"interruptionCount" db:"interruption_count"`
	Satisfaction      Satisfaction `json:"satisfaction,omitempty" db:"satisfaction"`

	// Sales is optional; calls without a sales conversation carry nil.
	Sales *SalesInsights `json:"sales,omitempty" db:"-"`

	// MessageIDs references linked WhatsApp message records.
	MessageIDs []string `json:"messageIds,omitempty" db:"-"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SalesInsights is the optional lead-qualification sub-document.

type SalesInsights struct {
	ConversationStage string          `json:"conversationStage,omitempty"`
	BANTBreakdown     *BANTBreakdown  `json:"bantBreakdown,omitempty"`
	BANTScore         int             `json:"bantScore"`
	ObjectionsFaced   []Objection     `json:"objectionsFaced,omitempty"`
	TechniquesUsed    []string        `json:"techniquesUsed,omitempty"`
	SentimentScore    float64         `json:"sentimentScore"`
	CallQuality       CallQuality     `json:"callQuality"`
	TalkListenRatio   TalkListenRatio `json:"talkListenRatio"`
	ConversionOutcome string          `json:"conversionOutcome,omitempty"`
}

// BANTBreakdown holds the four lead-scoring components. Missing components
// are treated as zero when the score is derived.

type BANTBreakdown struct {
	Budget    int `json:"budget"`
	Authority int `json:"authority"`
	Need      int `json:"need"`
	Timeline  int `json:"timeline"`
}

// Objection is one entry of the ordered objection list.

type Objection struct {
	Text     string `json:"text"`
	Resolved bool   `json:"resolved"`
}

type CallQuality struct {
	Score float64 `json:"score"`
}

type TalkListenRatio struct {
	AIRatio float64 `json:"aiRatio"`
}

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusMissed     Status = "missed"
)

type CallType string

const (
	TypeInbound  CallType = "inbound"
	TypeOutbound CallType = "outbound"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageMixed   Language = "mixed"
)

type Satisfaction string

const (
	SatisfactionPositive Satisfaction = "positive"
	SatisfactionNegative Satisfaction = "negative"
	SatisfactionNeutral  Satisfaction = "neutral"
	SatisfactionUnknown  Satisfaction = "unknown"
)

// ConversionOutcomeConverted is the outcome value counted as a conversion by
// the analytics rollups.
const ConversionOutcomeConverted = "converted"

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusSuccess, StatusFailed, StatusMissed:
		return true
	default:
		return false
	}
}

func (t CallType) Valid() bool {
	return t == TypeInbound || t == TypeOutbound
}
