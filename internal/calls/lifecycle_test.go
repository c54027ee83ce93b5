package calls

import (
	"testing"
	"time"
)

func TestApplyDerived_Duration(t *testing.T) {
	start := time.Unix(1700000000, 0).UTC()
	end := start.Add(125*time.Second + 900*time.Millisecond)

	c := Call{CallID: "c1", StartTime: start, EndTime: &end}
	ApplyDerived(&c)
	if c.DurationSeconds != 125 {
		t.Fatalf("expected floored duration 125, got %d", c.DurationSeconds)
	}

	// Saving again without changing timestamps yields the same duration.
	ApplyDerived(&c)
	if c.DurationSeconds != 125 {
		t.Fatalf("expected idempotent duration 125, got %d", c.DurationSeconds)
	}
}

func TestApplyDerived_NoEndTimeLeavesDuration(t *testing.T) {
	c := Call{CallID: "c1", StartTime: time.Unix(1700000000, 0).UTC()}
	ApplyDerived(&c)
	if c.DurationSeconds != 0 {
		t.Fatalf("expected duration untouched, got %d", c.DurationSeconds)
	}
}

func TestApplyDerived_BANTScore(t *testing.T) {
	c := Call{
		CallID: "c1",
		Sales: &SalesInsights{
			BANTBreakdown: &BANTBreakdown{Budget: 20, Authority: 15, Need: 25, Timeline: 10},
		},
	}
	ApplyDerived(&c)
	if c.Sales.BANTScore != 70 {
		t.Fatalf("expected bant score 70, got %d", c.Sales.BANTScore)
	}
}

func TestApplyDerived_BANTMissingComponentsCountAsZero(t *testing.T) {
	c := Call{
		CallID: "c1",
		Sales:  &SalesInsights{BANTBreakdown: &BANTBreakdown{Budget: 30}},
	}
	ApplyDerived(&c)
	if c.Sales.BANTScore != 30 {
		t.Fatalf("expected bant score 30, got %d", c.Sales.BANTScore)
	}
}

func TestApplyDerived_NoBreakdownLeavesScore(t *testing.T) {
	c := Call{CallID: "c1", Sales: &SalesInsights{BANTScore: 42}}
	ApplyDerived(&c)
	if c.Sales.BANTScore != 42 {
		t.Fatalf("expected score untouched, got %d", c.Sales.BANTScore)
	}
}
