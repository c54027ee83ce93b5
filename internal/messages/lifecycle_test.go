package messages

import (
	"testing"
	"time"
)

func TestApplyStatus_FillOnceTimestamps(t *testing.T) {
	t1 := time.Unix(1700000000, 0).UTC()
	t2 := t1.Add(time.Minute)
	t3 := t1.Add(2 * time.Minute)

	m := Message{MessageID: "m1", Status: StatusPending}

	ApplyStatus(&m, StatusSent, t1, nil)
	if m.Status != StatusSent || m.SentAt == nil || !m.SentAt.Equal(t1) {
		t.Fatalf("expected sent at %v, got %+v", t1, m)
	}

	// bounce away and back: the original timestamp must survive
	ApplyStatus(&m, StatusDelivered, t2, nil)
	ApplyStatus(&m, StatusSent, t3, nil)
	if !m.SentAt.Equal(t1) {
		t.Fatalf("sentAt overwritten: got %v, want %v", m.SentAt, t1)
	}
	if m.DeliveredAt == nil || !m.DeliveredAt.Equal(t2) {
		t.Fatalf("deliveredAt lost: got %v, want %v", m.DeliveredAt, t2)
	}
}

func TestApplyStatus_SameStatusTwiceDoesNotRestamp(t *testing.T) {
	t1 := time.Unix(1700000000, 0).UTC()
	t2 := t1.Add(time.Hour)

	m := Message{MessageID: "m1", Status: StatusPending}
	ApplyStatus(&m, StatusDelivered, t1, nil)
	ApplyStatus(&m, StatusDelivered, t2, nil)
	if !m.DeliveredAt.Equal(t1) {
		t.Fatalf("expected deliveredAt %v unchanged, got %v", t1, m.DeliveredAt)
	}
}

func TestApplyStatus_RegressionPermitted(t *testing.T) {
	t1 := time.Unix(1700000000, 0).UTC()

	m := Message{MessageID: "m1", Status: StatusPending}
	ApplyStatus(&m, StatusRead, t1, nil)
	ApplyStatus(&m, StatusPending, t1.Add(time.Minute), nil)
	if m.Status != StatusPending {
		t.Fatalf("expected regression to pending to be permitted, got %q", m.Status)
	}
	if m.ReadAt == nil || !m.ReadAt.Equal(t1) {
		t.Fatalf("readAt must survive regression, got %v", m.ReadAt)
	}
}

func TestApplyStatus_ErrorReplacedWholesale(t *testing.T) {
	t1 := time.Unix(1700000000, 0).UTC()

	m := Message{MessageID: "m1", Status: StatusPending}
	ApplyStatus(&m, StatusFailed, t1, &DeliveryError{Code: "470", Message: "re-engagement", Details: "window expired", NeedsOptin: true})
	ApplyStatus(&m, StatusFailed, t1, &DeliveryError{Code: "500"})

	if m.Error.Code != "500" {
		t.Fatalf("expected replacement error code 500, got %q", m.Error.Code)
	}
	if m.Error.Message != "" || m.Error.Details != "" || m.Error.NeedsOptin {
		t.Fatalf("expected wholesale replacement, got merged payload %+v", m.Error)
	}
}

func TestApplyStatus_NilErrorKeepsExisting(t *testing.T) {
	t1 := time.Unix(1700000000, 0).UTC()

	m := Message{MessageID: "m1", Status: StatusPending}
	ApplyStatus(&m, StatusFailed, t1, &DeliveryError{Code: "470"})
	ApplyStatus(&m, StatusSent, t1, nil)
	if m.Error == nil || m.Error.Code != "470" {
		t.Fatalf("expected existing error kept, got %+v", m.Error)
	}
}
