package analytics

import "time"

// Window bounds a rollup to [Start, End). Zero bounds mean "all time" for
// cumulative stats; trend and breakdown operations use a trailing-days window
// instead.

type Window struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// MessageStats is the cumulative outbound delivery rollup.
//
// Counter semantics:
// - Sent counts records at or beyond "sent" (sent|delivered|read).
// - Delivered counts delivered or read.
// All rates are percentages rounded to one decimal; a zero denominator
// yields 0, never NaN.

type MessageStats struct {
	Total        int `json:"total"`
	Sent         int `json:"sent"`
	Delivered    int `json:"delivered"`
	Read         int `json:"read"`
	Failed       int `json:"failed"`
	Pending      int `json:"pending"`
	PaymentLinks int `json:"paymentLinks"`
	NeedsOptin   int `json:"needsOptin"`

	DeliveryRate float64 `json:"deliveryRate"`
	ReadRate     float64 `json:"readRate"`
	FailureRate  float64 `json:"failureRate"`
}

// TypeBreakdown is one row of the per-type outbound rollup, sorted
// descending by count.

type TypeBreakdown struct {
	Type         string  `json:"type"`
	Count        int     `json:"count"`
	Delivered    int     `json:"delivered"`
	Failed       int     `json:"failed"`
	DeliveryRate float64 `json:"deliveryRate"`
}

// DailyMessageTrend is one calendar-day bucket (UTC), ascending by date.
// Only days with at least one matching record appear.

type DailyMessageTrend struct {
	Date         string `json:"date"`
	Total        int    `json:"total"`
	Delivered    int    `json:"delivered"`
	Failed       int    `json:"failed"`
	PaymentLinks int    `json:"paymentLinks"`
}

type CallStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Missed     int `json:"missed"`

	// Durations cover every call in the window regardless of status.
	TotalDuration int     `json:"totalDuration"`
	AvgDuration   float64 `json:"avgDuration"`
}

type DailyCallTrend struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
	Converted  int    `json:"converted"`

	// Averages cover the day's calls that carry sales insights.
	AvgBANTScore    float64 `json:"avgBantScore"`
	AvgQualityScore float64 `json:"avgQualityScore"`
}

type SalesMetrics struct {
	TotalCalls int `json:"totalCalls"`
	Converted  int `json:"converted"`

	// Averages cover calls that carry sales insights.
	AvgBANTScore   float64 `json:"avgBantScore"`
	AvgCallQuality float64 `json:"avgCallQuality"`
	AvgSentiment   float64 `json:"avgSentiment"`
	AvgAiTalkRatio float64 `json:"avgAiTalkRatio"`

	TotalObjections    int `json:"totalObjections"`
	ResolvedObjections int `json:"resolvedObjections"`

	ConversionRate          float64 `json:"conversionRate"`
	ObjectionResolutionRate float64 `json:"objectionResolutionRate"`
}

// StageAnalysis is one conversation-stage group, sorted descending by count.

type StageAnalysis struct {
	Stage          string  `json:"stage"`
	Count          int     `json:"count"`
	AvgDuration    float64 `json:"avgDuration"`
	ConversionRate float64 `json:"conversionRate"`
	AvgBANTScore   float64 `json:"avgBantScore"`
}

// Health is the derived traffic-light over the trailing 24 hours.

type Health struct {
	Status      string  `json:"status"` // healthy | warning | critical
	SuccessRate float64 `json:"successRate"`
	TotalCalls  int     `json:"totalCalls"`
	Database    string  `json:"database"` // connected | disconnected

	CheckedAt time.Time `json:"checkedAt"`
}

const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"

	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)
