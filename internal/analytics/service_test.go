package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"engagement-platform/internal/calls"
	"engagement-platform/internal/messages"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(callRepo *calls.MemoryRepo, msgRepo *messages.MemoryRepo) *Service {
	svc := NewService(Repo{Calls: callRepo, Messages: msgRepo})
	svc.clock = func() time.Time { return testNow }
	return svc
}

func seedMessages(t *testing.T, repo *messages.MemoryRepo, specs []messages.Message) {
	t.Helper()
	ctx := context.Background()
	for _, m := range specs {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = testNow.Add(-time.Hour)
		}
		if m.Direction == "" {
			m.Direction = messages.DirectionOutbound
		}
		if m.Type == "" {
			m.Type = messages.TypeText
		}
		if err := repo.Upsert(ctx, m); err != nil {
			t.Fatalf("seed message %s: %v", m.MessageID, err)
		}
	}
}

func seedCalls(t *testing.T, repo *calls.MemoryRepo, specs []calls.Call) {
	t.Helper()
	ctx := context.Background()
	for _, c := range specs {
		if c.StartTime.IsZero() {
			c.StartTime = testNow.Add(-time.Hour)
		}
		if err := repo.Upsert(ctx, c); err != nil {
			t.Fatalf("seed call %s: %v", c.CallID, err)
		}
	}
}

func msgN(id string, st messages.Status) messages.Message {
	return messages.Message{MessageID: id, Phone: "+91", Content: "x", Status: st}
}

// The canonical worked example: 10 outbound messages, 8 at or beyond sent,
// 6 delivered or read, 3 read, 2 failed.
func TestMessageStats_WorkedExample(t *testing.T) {
	msgRepo := messages.NewMemoryRepo()
	seedMessages(t, msgRepo, []messages.Message{
		msgN("m1", messages.StatusRead),
		msgN("m2", messages.StatusRead),
		msgN("m3", messages.StatusRead),
		msgN("m4", messages.StatusDelivered),
		msgN("m5", messages.StatusDelivered),
		msgN("m6", messages.StatusDelivered),
		msgN("m7", messages.StatusSent),
		msgN("m8", messages.StatusSent),
		msgN("m9", messages.StatusFailed),
		msgN("m10", messages.StatusFailed),
	})
	svc := newTestService(calls.NewMemoryRepo(), msgRepo)

	out, err := svc.MessageStats(context.Background(), Window{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Total != 10 || out.Sent != 8 || out.Delivered != 6 || out.Read != 3 || out.Failed != 2 {
		t.Fatalf("unexpected counters: %+v", out)
	}
	if out.DeliveryRate != 75.0 {
		t.Fatalf("deliveryRate = %v, want 75.0", out.DeliveryRate)
	}
	if out.ReadRate != 50.0 {
		t.Fatalf("readRate = %v, want 50.0", out.ReadRate)
	}
	if out.FailureRate != 20.0 {
		t.Fatalf("failureRate = %v, want 20.0", out.FailureRate)
	}
}

func TestMessageStats_EmptyStoreYieldsZeroRates(t *testing.T) {
	svc := newTestService(calls.NewMemoryRepo(), messages.NewMemoryRepo())
	out, err := svc.MessageStats(context.Background(), Window{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.DeliveryRate != 0 || out.ReadRate != 0 || out.FailureRate != 0 {
		t.Fatalf("expected zero rates on zero denominators, got %+v", out)
	}
}

func TestMessageStats_IgnoresInbound(t *testing.T) {
	msgRepo := messages.NewMemoryRepo()
	inbound := msgN("m1", messages.StatusRead)
	inbound.Direction = messages.DirectionInbound
	seedMessages(t, msgRepo, []messages.Message{inbound, msgN("m2", messages.StatusSent)})
	svc := newTestService(calls.NewMemoryRepo(), msgRepo)

	out, _ := svc.MessageStats(context.Background(), Window{})
	if out.Total != 1 {
		t.Fatalf("expected inbound excluded, got total %d", out.Total)
	}
}

func TestMessageStats_CountsPaymentLinksAndOptin(t *testing.T) {
	msgRepo := messages.NewMemoryRepo()
	pay := msgN("m1", messages.StatusSent)
	pay.Type = messages.TypePaymentLink
	flagged := msgN("m2", messages.StatusFailed)
	flagged.Error = &messages.DeliveryError{Code: "131050", NeedsOptin: true}
	seedMessages(t, msgRepo, []messages.Message{pay, flagged})
	svc := newTestService(calls.NewMemoryRepo(), msgRepo)

	out, _ := svc.MessageStats(context.Background(), Window{})
	if out.PaymentLinks != 1 || out.NeedsOptin != 1 {
		t.Fatalf("expected paymentLinks=1 needsOptin=1, got %+v", out)
	}
}

func TestMessageTypeBreakdown_SortedByCountDesc(t *testing.T) {
	msgRepo := messages.NewMemoryRepo()
	mk := func(id string, typ messages.MessageType, st messages.Status) messages.Message {
		m := msgN(id, st)
		m.Type = typ
		return m
	}
	seedMessages(t, msgRepo, []messages.Message{
		mk("m1", messages.TypeText, messages.StatusDelivered),
		mk("m2", messages.TypeText, messages.StatusFailed),
		mk("m3", messages.TypeText, messages.StatusRead),
		mk("m4", messages.TypeTemplate, messages.StatusDelivered),
		mk("m5", messages.TypePaymentLink, messages.StatusPending),
		mk("m6", messages.TypePaymentLink, messages.StatusDelivered),
	})
	svc := newTestService(calls.NewMemoryRepo(), msgRepo)

	out, err := svc.MessageTypeBreakdown(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(out))
	}
	if out[0].Type != "text" || out[0].Count != 3 {
		t.Fatalf("expected text first with count 3, got %+v", out[0])
	}
	if out[0].Delivered != 2 || out[0].Failed != 1 {
		t.Fatalf("unexpected text group: %+v", out[0])
	}
	if out[0].DeliveryRate != 66.7 {
		t.Fatalf("deliveryRate = %v, want 66.7", out[0].DeliveryRate)
	}
}

func TestMessageTypeBreakdown_TrailingWindowExcludesOld(t *testing.T) {
	msgRepo := messages.NewMemoryRepo()
	old := msgN("m1", messages.StatusSent)
	old.CreatedAt = testNow.Add(-8 * 24 * time.Hour)
	recent := msgN("m2", messages.StatusSent)
	recent.CreatedAt = testNow.Add(-time.Hour)
	seedMessages(t, msgRepo, []messages.Message{old, recent})
	svc := newTestService(calls.NewMemoryRepo(), msgRepo)

	out, _ := svc.MessageTypeBreakdown(context.Background(), 7)
	if len(out) != 1 || out[0].Count != 1 {
		t.Fatalf("expected only the recent message, got %+v", out)
	}
}

func TestDailyMessageTrends_BucketsAscending(t *testing.T) {
	msgRepo := messages.NewMemoryRepo()
	day1 := msgN("m1", messages.StatusDelivered)
	day1.CreatedAt = testNow.Add(-2 * 24 * time.Hour)
	day2a := msgN("m2", messages.StatusFailed)
	day2a.CreatedAt = testNow.Add(-24 * time.Hour)
	day2b := msgN("m3", messages.StatusRead)
	day2b.CreatedAt = testNow.Add(-24 * time.Hour)
	day2b.Type = messages.TypePaymentLink
	seedMessages(t, msgRepo, []messages.Message{day1, day2a, day2b})
	svc := newTestService(calls.NewMemoryRepo(), msgRepo)

	out, err := svc.DailyMessageTrends(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// exactly the distinct days with records, no empty buckets
	if len(out) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(out), out)
	}
	if out[0].Date >= out[1].Date {
		t.Fatalf("expected ascending dates, got %+v", out)
	}
	if out[1].Total != 2 || out[1].Delivered != 1 || out[1].Failed != 1 || out[1].PaymentLinks != 1 {
		t.Fatalf("unexpected bucket: %+v", out[1])
	}
}

func TestCallStats_DurationsCoverAllStatuses(t *testing.T) {
	callRepo := calls.NewMemoryRepo()
	seedCalls(t, callRepo, []calls.Call{
		{CallID: "c1", Status: calls.StatusSuccess, DurationSeconds: 120},
		{CallID: "c2", Status: calls.StatusFailed, DurationSeconds: 30},
		{CallID: "c3", Status: calls.StatusMissed},
		{CallID: "c4", Status: calls.StatusInProgress, DurationSeconds: 10},
	})
	svc := newTestService(callRepo, messages.NewMemoryRepo())

	out, err := svc.CallStats(context.Background(), Window{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Total != 4 || out.Successful != 1 || out.Failed != 1 || out.Missed != 1 {
		t.Fatalf("unexpected counters: %+v", out)
	}
	if out.TotalDuration != 160 || out.AvgDuration != 40.0 {
		t.Fatalf("unexpected durations: %+v", out)
	}
}

func TestDailyCallTrends_AveragesOverSalesCalls(t *testing.T) {
	callRepo := calls.NewMemoryRepo()
	day := testNow.Add(-24 * time.Hour)
	seedCalls(t, callRepo, []calls.Call{
		{CallID: "c1", Status: calls.StatusSuccess, StartTime: day, Sales: &calls.SalesInsights{
			BANTScore: 80, CallQuality: calls.CallQuality{Score: 8}, ConversionOutcome: calls.ConversionOutcomeConverted,
		}},
		{CallID: "c2", Status: calls.StatusFailed, StartTime: day, Sales: &calls.SalesInsights{
			BANTScore: 40, CallQuality: calls.CallQuality{Score: 6},
		}},
		{CallID: "c3", Status: calls.StatusSuccess, StartTime: day},
	})
	svc := newTestService(callRepo, messages.NewMemoryRepo())

	out, err := svc.DailyCallTrends(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 bucket, got %+v", out)
	}
	b := out[0]
	if b.Total != 3 || b.Successful != 2 || b.Failed != 1 || b.Converted != 1 {
		t.Fatalf("unexpected bucket: %+v", b)
	}
	if b.AvgBANTScore != 60.0 || b.AvgQualityScore != 7.0 {
		t.Fatalf("unexpected averages: %+v", b)
	}
}

func TestSalesMetrics(t *testing.T) {
	callRepo := calls.NewMemoryRepo()
	seedCalls(t, callRepo, []calls.Call{
		{CallID: "c1", Status: calls.StatusSuccess, Sales: &calls.SalesInsights{
			BANTScore:         90,
			SentimentScore:    0.8,
			CallQuality:       calls.CallQuality{Score: 9},
			TalkListenRatio:   calls.TalkListenRatio{AIRatio: 0.6},
			ConversionOutcome: calls.ConversionOutcomeConverted,
			ObjectionsFaced: []calls.Objection{
				{Text: "too expensive", Resolved: true},
				{Text: "need approval", Resolved: false},
			},
		}},
		{CallID: "c2", Status: calls.StatusSuccess, Sales: &calls.SalesInsights{
			BANTScore:       50,
			SentimentScore:  0.4,
			CallQuality:     calls.CallQuality{Score: 5},
			TalkListenRatio: calls.TalkListenRatio{AIRatio: 0.8},
			ObjectionsFaced: []calls.Objection{{Text: "later", Resolved: true}},
		}},
		{CallID: "c3", Status: calls.StatusMissed},
	})
	svc := newTestService(callRepo, messages.NewMemoryRepo())

	out, err := svc.SalesMetrics(context.Background(), Window{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalCalls != 3 || out.Converted != 1 {
		t.Fatalf("unexpected counters: %+v", out)
	}
	if out.AvgBANTScore != 70.0 || out.AvgCallQuality != 7.0 || out.AvgSentiment != 0.6 || out.AvgAiTalkRatio != 0.7 {
		t.Fatalf("unexpected averages: %+v", out)
	}
	if out.TotalObjections != 3 || out.ResolvedObjections != 2 {
		t.Fatalf("unexpected objection counts: %+v", out)
	}
	if out.ConversionRate != 33.3 {
		t.Fatalf("conversionRate = %v, want 33.3", out.ConversionRate)
	}
	if out.ObjectionResolutionRate != 66.7 {
		t.Fatalf("objectionResolutionRate = %v, want 66.7", out.ObjectionResolutionRate)
	}
}

func TestSalesMetrics_ZeroDenominators(t *testing.T) {
	svc := newTestService(calls.NewMemoryRepo(), messages.NewMemoryRepo())
	out, err := svc.SalesMetrics(context.Background(), Window{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.ConversionRate != 0 || out.ObjectionResolutionRate != 0 {
		t.Fatalf("expected zero rates, got %+v", out)
	}
}

func TestStageAnalysis_GroupsAndSorts(t *testing.T) {
	callRepo := calls.NewMemoryRepo()
	seedCalls(t, callRepo, []calls.Call{
		{CallID: "c1", DurationSeconds: 60, Sales: &calls.SalesInsights{ConversationStage: "negotiation", BANTScore: 80, ConversionOutcome: calls.ConversionOutcomeConverted}},
		{CallID: "c2", DurationSeconds: 120, Sales: &calls.SalesInsights{ConversationStage: "negotiation", BANTScore: 40}},
		{CallID: "c3", DurationSeconds: 30, Sales: &calls.SalesInsights{ConversationStage: "discovery", BANTScore: 20}},
		{CallID: "c4", DurationSeconds: 10},
	})
	svc := newTestService(callRepo, messages.NewMemoryRepo())

	out, err := svc.StageAnalysis(context.Background(), Window{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 groups, got %+v", out)
	}
	top := out[0]
	if top.Stage != "negotiation" || top.Count != 2 {
		t.Fatalf("expected negotiation first, got %+v", top)
	}
	if top.AvgDuration != 90.0 || top.ConversionRate != 50.0 || top.AvgBANTScore != 60.0 {
		t.Fatalf("unexpected group metrics: %+v", top)
	}
}

func TestHealthStatus_NoCallsIsHealthy(t *testing.T) {
	svc := newTestService(calls.NewMemoryRepo(), messages.NewMemoryRepo())
	h := svc.HealthStatus(context.Background())
	if h.Status != HealthHealthy || h.SuccessRate != 100 || h.Database != DatabaseConnected {
		t.Fatalf("expected healthy idle system, got %+v", h)
	}
}

func TestHealthStatus_Thresholds(t *testing.T) {
	cases := []struct {
		name       string
		successful int
		total      int
		want       string
	}{
		{"critical below 60", 25, 50, HealthCritical},
		{"warning at 60", 6, 10, HealthWarning},
		{"warning below 80", 7, 10, HealthWarning},
		{"healthy at 80", 8, 10, HealthHealthy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			callRepo := calls.NewMemoryRepo()
			specs := make([]calls.Call, 0, tc.total)
			for i := 0; i < tc.total; i++ {
				st := calls.StatusFailed
				if i < tc.successful {
					st = calls.StatusSuccess
				}
				specs = append(specs, calls.Call{
					CallID:    string(rune('a'+i%26)) + string(rune('0'+i/26)),
					Status:    st,
					StartTime: testNow.Add(-time.Hour),
				})
			}
			seedCalls(t, callRepo, specs)
			svc := newTestService(callRepo, messages.NewMemoryRepo())

			h := svc.HealthStatus(context.Background())
			if h.Status != tc.want {
				t.Fatalf("rate %v: status = %q, want %q", h.SuccessRate, h.Status, tc.want)
			}
		})
	}
}

func TestHealthStatus_IgnoresCallsOutside24h(t *testing.T) {
	callRepo := calls.NewMemoryRepo()
	seedCalls(t, callRepo, []calls.Call{
		{CallID: "old", Status: calls.StatusFailed, StartTime: testNow.Add(-25 * time.Hour)},
		{CallID: "new", Status: calls.StatusSuccess, StartTime: testNow.Add(-time.Hour)},
	})
	svc := newTestService(callRepo, messages.NewMemoryRepo())

	h := svc.HealthStatus(context.Background())
	if h.TotalCalls != 1 || h.Status != HealthHealthy {
		t.Fatalf("expected old failure excluded, got %+v", h)
	}
}

type failingCallSource struct{}

func (failingCallSource) ListInWindow(ctx context.Context, from, to time.Time) ([]calls.Call, error) {
	return nil, errors.New("connection refused")
}

func TestHealthStatus_StoreUnreachableDegradesLocally(t *testing.T) {
	svc := NewService(Repo{Calls: failingCallSource{}, Messages: messages.NewMemoryRepo()})
	h := svc.HealthStatus(context.Background())
	if h.Status != HealthCritical || h.Database != DatabaseDisconnected {
		t.Fatalf("expected critical/disconnected fallback, got %+v", h)
	}
}

func TestCallStats_StoreFailurePropagates(t *testing.T) {
	svc := NewService(Repo{Calls: failingCallSource{}, Messages: messages.NewMemoryRepo()})
	if _, err := svc.CallStats(context.Background(), Window{}); err == nil {
		t.Fatalf("expected store failure to propagate outside the health path")
	}
}
