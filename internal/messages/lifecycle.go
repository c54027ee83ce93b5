package messages

import "time"

// ApplyStatus applies a delivery-status transition to the in-memory record
// before persistence.
//
// Rules:
// - If next differs from the stored status, the record moves to next and the
//   status-specific timestamp is set iff it is still unset (fill-once).
//   Re-entering a status never overwrites an already-set timestamp.
// - Regressive transitions (e.g. read → pending) are permitted; only the
//   fill-once rule is enforced.
// - A non-nil error payload replaces the prior error wholesale. A nil payload
//   leaves the existing one in place.
//
// Pure derivation: mutates the record, never fails.
func ApplyStatus(m *Message, next Status, now time.Time, deliveryErr *DeliveryError) {
	if m == nil {
		return
	}
	if next != "" && next != m.Status {
		m.Status = next
		stamp(m, next, now)
	}
	if deliveryErr != nil {
		m.Error = deliveryErr
	}
}

func stamp(m *Message, st Status, now time.Time) {
	switch st {
	case StatusSent:
		if m.SentAt == nil {
			m.SentAt = &now
		}
	case StatusDelivered:
		if m.DeliveredAt == nil {
			m.DeliveredAt = &now
		}
	case StatusRead:
		if m.ReadAt == nil {
			m.ReadAt = &now
		}
	case StatusFailed:
		if m.FailedAt == nil {
			m.FailedAt = &now
		}
	case StatusPending:
		// pending has no timestamp of its own
	}
}
