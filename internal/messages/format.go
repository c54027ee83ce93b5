package messages

import (
	"fmt"
	"strings"
	"time"
)

// Presentation helpers. These are deterministic formatting functions for
// dashboard display; nothing here is stored.

// MaskPhone hides the middle digits of a phone-like identifier, keeping the
// first four and last two characters visible. Short values are returned as-is.
func MaskPhone(phone string) string {
	if len(phone) <= 6 {
		return phone
	}
	return phone[:4] + strings.Repeat("*", len(phone)-6) + phone[len(phone)-2:]
}

// Age renders how long ago the record was created, relative to now.
func Age(createdAt, now time.Time) string {
	if createdAt.IsZero() || now.Before(createdAt) {
		return "just now"
	}
	d := now.Sub(createdAt)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// StatusColor maps a delivery status to a dashboard traffic color.
func StatusColor(s Status) string {
	switch s {
	case StatusRead:
		return "green"
	case StatusDelivered:
		return "teal"
	case StatusSent:
		return "blue"
	case StatusFailed:
		return "red"
	default:
		return "gray"
	}
}
