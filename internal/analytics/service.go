package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"engagement-platform/internal/calls"
	"engagement-platform/internal/messages"
)

// Health thresholds and window. Fixed constants, not configurable inputs.
const (
	healthWindow            = 24 * time.Hour
	healthyMinSuccessRate   = 80.0
	warningMinSuccessRate   = 60.0
	defaultTrailingDays     = 7
)

// Service computes read-only, time-windowed rollups over the record store.
// Each rollup is a single group-by/reducer pass over the filtered record set
// and is computed independently; interleaved writes may make two rollups
// reflect slightly different states. No retries: a failing read surfaces to
// the caller, except in the health path which degrades locally.
//
// Daily buckets use UTC calendar days.

type Service struct {
	repo  Repo
	clock func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// MessageStats aggregates outbound delivery counters over the window
// (zero window = all time).
func (s *Service) MessageStats(ctx context.Context, w Window) (MessageStats, error) {
	rows, err := s.repo.messagesInWindow(ctx, w.Start, w.End)
	if err != nil {
		return MessageStats{}, err
	}

	var out MessageStats
	for _, m := range rows {
		if m.Direction != messages.DirectionOutbound {
			continue
		}
		out.Total++
		switch m.Status {
		case messages.StatusSent:
			out.Sent++
		case messages.StatusDelivered:
			out.Sent++
			out.Delivered++
		case messages.StatusRead:
			out.Sent++
			out.Delivered++
			out.Read++
		case messages.StatusFailed:
			out.Failed++
		case messages.StatusPending:
			out.Pending++
		}
		if m.Type == messages.TypePaymentLink {
			out.PaymentLinks++
		}
		if m.Error != nil && m.Error.NeedsOptin {
			out.NeedsOptin++
		}
	}

	out.DeliveryRate = pct(out.Delivered, out.Sent)
	out.ReadRate = pct(out.Read, out.Delivered)
	out.FailureRate = pct(out.Failed, out.Total)
	return out, nil
}

// MessageTypeBreakdown groups outbound messages by type over the trailing
// number of days (default 7), sorted descending by count.
func (s *Service) MessageTypeBreakdown(ctx context.Context, days int) ([]TypeBreakdown, error) {
	rows, err := s.repo.messagesInWindow(ctx, s.trailing(days), time.Time{})
	if err != nil {
		return nil, err
	}

	groups := map[string]*TypeBreakdown{}
	for _, m := range rows {
		if m.Direction != messages.DirectionOutbound {
			continue
		}
		g, ok := groups[string(m.Type)]
		if !ok {
			g = &TypeBreakdown{Type: string(m.Type)}
			groups[string(m.Type)] = g
		}
		g.Count++
		switch m.Status {
		case messages.StatusDelivered, messages.StatusRead:
			g.Delivered++
		case messages.StatusFailed:
			g.Failed++
		}
	}

	out := make([]TypeBreakdown, 0, len(groups))
	for _, g := range groups {
		g.DeliveryRate = pct(g.Delivered, g.Count)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// DailyMessageTrends buckets messages by UTC calendar day over the trailing
// number of days (default 7), ascending by date. Only days with at least one
// record appear.
func (s *Service) DailyMessageTrends(ctx context.Context, days int) ([]DailyMessageTrend, error) {
	rows, err := s.repo.messagesInWindow(ctx, s.trailing(days), time.Time{})
	if err != nil {
		return nil, err
	}

	buckets := map[string]*DailyMessageTrend{}
	for _, m := range rows {
		day := m.CreatedAt.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &DailyMessageTrend{Date: day}
			buckets[day] = b
		}
		b.Total++
		switch m.Status {
		case messages.StatusDelivered, messages.StatusRead:
			b.Delivered++
		case messages.StatusFailed:
			b.Failed++
		}
		if m.Type == messages.TypePaymentLink {
			b.PaymentLinks++
		}
	}

	out := make([]DailyMessageTrend, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// CallStats aggregates call counters and durations over the window.
// Durations cover every call in the window regardless of status.
func (s *Service) CallStats(ctx context.Context, w Window) (CallStats, error) {
	rows, err := s.repo.callsInWindow(ctx, w.Start, w.End)
	if err != nil {
		return CallStats{}, err
	}

	var out CallStats
	for _, c := range rows {
		out.Total++
		out.TotalDuration += c.DurationSeconds
		switch c.Status {
		case calls.StatusSuccess:
			out.Successful++
		case calls.StatusFailed:
			out.Failed++
		case calls.StatusMissed:
			out.Missed++
		}
	}
	if out.Total > 0 {
		out.AvgDuration = round1(float64(out.TotalDuration) / float64(out.Total))
	}
	return out, nil
}

// DailyCallTrends buckets calls by UTC calendar day over the trailing number
// of days (default 7), ascending by date.
func (s *Service) DailyCallTrends(ctx context.Context, days int) ([]DailyCallTrend, error) {
	rows, err := s.repo.callsInWindow(ctx, s.trailing(days), time.Time{})
	if err != nil {
		return nil, err
	}

	type acc struct {
		trend      DailyCallTrend
		bantSum    float64
		qualitySum float64
		salesCalls int
	}
	buckets := map[string]*acc{}
	for _, c := range rows {
		day := c.StartTime.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &acc{trend: DailyCallTrend{Date: day}}
			buckets[day] = b
		}
		b.trend.Total++
		switch c.Status {
		case calls.StatusSuccess:
			b.trend.Successful++
		case calls.StatusFailed:
			b.trend.Failed++
		}
		if c.Sales != nil {
			b.salesCalls++
			b.bantSum += float64(c.Sales.BANTScore)
			b.qualitySum += c.Sales.CallQuality.Score
			if c.Sales.ConversionOutcome == calls.ConversionOutcomeConverted {
				b.trend.Converted++
			}
		}
	}

	out := make([]DailyCallTrend, 0, len(buckets))
	for _, b := range buckets {
		if b.salesCalls > 0 {
			b.trend.AvgBANTScore = round1(b.bantSum / float64(b.salesCalls))
			b.trend.AvgQualityScore = round1(b.qualitySum / float64(b.salesCalls))
		}
		out = append(out, b.trend)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// SalesMetrics aggregates the BANT/conversion rollup over the window.
// Score averages cover calls that carry sales insights; the conversion rate
// denominator is every call in the window.
func (s *Service) SalesMetrics(ctx context.Context, w Window) (SalesMetrics, error) {
	rows, err := s.repo.callsInWindow(ctx, w.Start, w.End)
	if err != nil {
		return SalesMetrics{}, err
	}

	var (
		out        SalesMetrics
		bantSum    float64
		qualitySum float64
		sentSum    float64
		ratioSum   float64
		salesCalls int
	)
	for _, c := range rows {
		out.TotalCalls++
		if c.Sales == nil {
			continue
		}
		salesCalls++
		bantSum += float64(c.Sales.BANTScore)
		qualitySum += c.Sales.CallQuality.Score
		sentSum += c.Sales.SentimentScore
		ratioSum += c.Sales.TalkListenRatio.AIRatio
		if c.Sales.ConversionOutcome == calls.ConversionOutcomeConverted {
			out.Converted++
		}
		for _, o := range c.Sales.ObjectionsFaced {
			out.TotalObjections++
			if o.Resolved {
				out.ResolvedObjections++
			}
		}
	}

	if salesCalls > 0 {
		out.AvgBANTScore = round1(bantSum / float64(salesCalls))
		out.AvgCallQuality = round1(qualitySum / float64(salesCalls))
		out.AvgSentiment = round1(sentSum / float64(salesCalls))
		out.AvgAiTalkRatio = round1(ratioSum / float64(salesCalls))
	}
	out.ConversionRate = pct(out.Converted, out.TotalCalls)
	out.ObjectionResolutionRate = pct(out.ResolvedObjections, out.TotalObjections)
	return out, nil
}

// StageAnalysis groups sales calls by conversation stage over the window,
// sorted descending by count. Calls without sales insights are excluded;
// an empty stage groups under "unknown".
func (s *Service) StageAnalysis(ctx context.Context, w Window) ([]StageAnalysis, error) {
	rows, err := s.repo.callsInWindow(ctx, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	type acc struct {
		count       int
		durationSum int
		converted   int
		bantSum     float64
	}
	groups := map[string]*acc{}
	for _, c := range rows {
		if c.Sales == nil {
			continue
		}
		stage := c.Sales.ConversationStage
		if stage == "" {
			stage = "unknown"
		}
		g, ok := groups[stage]
		if !ok {
			g = &acc{}
			groups[stage] = g
		}
		g.count++
		g.durationSum += c.DurationSeconds
		g.bantSum += float64(c.Sales.BANTScore)
		if c.Sales.ConversionOutcome == calls.ConversionOutcomeConverted {
			g.converted++
		}
	}

	out := make([]StageAnalysis, 0, len(groups))
	for stage, g := range groups {
		out = append(out, StageAnalysis{
			Stage:          stage,
			Count:          g.count,
			AvgDuration:    round1(float64(g.durationSum) / float64(g.count)),
			ConversionRate: pct(g.converted, g.count),
			AvgBANTScore:   round1(g.bantSum / float64(g.count)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Stage < out[j].Stage
	})
	return out, nil
}

// HealthStatus derives the traffic-light from the trailing-24h call success
// rate. The window and the 80/60 thresholds are fixed regardless of any
// caller-requested analytics period. An unreachable store degrades to
// critical/disconnected locally instead of propagating the failure.
func (s *Service) HealthStatus(ctx context.Context) Health {
	now := s.clock().UTC()
	out := Health{Database: DatabaseConnected, CheckedAt: now}

	rows, err := s.repo.callsInWindow(ctx, now.Add(-healthWindow), time.Time{})
	if err != nil {
		out.Status = HealthCritical
		out.Database = DatabaseDisconnected
		return out
	}

	var successful int
	for _, c := range rows {
		out.TotalCalls++
		if c.Status == calls.StatusSuccess {
			successful++
		}
	}

	// No calls in the window is treated as a healthy idle system.
	if out.TotalCalls == 0 {
		out.SuccessRate = 100
	} else {
		out.SuccessRate = pct(successful, out.TotalCalls)
	}

	switch {
	case out.SuccessRate >= healthyMinSuccessRate:
		out.Status = HealthHealthy
	case out.SuccessRate >= warningMinSuccessRate:
		out.Status = HealthWarning
	default:
		out.Status = HealthCritical
	}
	return out
}

func (s *Service) trailing(days int) time.Time {
	if days <= 0 {
		days = defaultTrailingDays
	}
	return s.clock().UTC().Add(-time.Duration(days) * 24 * time.Hour)
}

// pct returns num/den as a percentage rounded to one decimal place.
// A zero denominator yields 0.
func pct(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round1(float64(num) / float64(den) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
