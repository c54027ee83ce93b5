package messages

import "time"

// Message is a WhatsApp-style delivery record.
//
// Invariants:
// - MessageID is globally unique; creation is idempotent on it.
// - Each delivery timestamp (SentAt/DeliveredAt/ReadAt/FailedAt) is set the
//   first time the record transitions into the matching status and is never
//   overwritten afterwards.
// - Status transitions are monotonic in intent (pending → sent → delivered →
//   read) but not structurally enforced: any status may be written. Only the
//   timestamp-fill-once rule holds.

type Message struct {
	MessageID string `json:"messageId" db:"message_id"`

	// CallID optionally links this message to a call record.
	CallID string `json:"callId,omitempty" db:"call_id"`

	Phone        string      `json:"phone" db:"phone"`
	CustomerName string      `json:"customerName" db:"customer_name"`
	Direction    Direction   `json:"direction" db:"direction"`
	Type         MessageType `json:"type" db:"type"`
	Content      string      `json:"content" db:"content"`

	Status Status `json:"status" db:"status"`

	SentAt      *time.Time `json:"sentAt,omitempty" db:"sent_at"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty" db:"delivered_at"`
	ReadAt      *time.Time `json:"readAt,omitempty" db:"read_at"`
	FailedAt    *time.Time `json:"failedAt,omitempty" db:"failed_at"`

	// Error is present only on failed or flagged deliveries. A new payload
	// replaces the previous one wholesale; it is never merged.
	Error *DeliveryError `json:"error,omitempty" db:"-"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// DeliveryError carries provider failure details.

type DeliveryError struct {
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Details    string `json:"details,omitempty"`
	NeedsOptin bool   `json:"needsOptin"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

type MessageType string

const (
	TypeText        MessageType = "text"
	TypeTemplate    MessageType = "template"
	TypePaymentLink MessageType = "payment_link"
	TypeImage       MessageType = "image"
	TypeDocument    MessageType = "document"
	TypeAudio       MessageType = "audio"
	TypeVideo       MessageType = "video"
)

// DefaultCustomerName is applied when create requests omit the name.
const DefaultCustomerName = "Customer"

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusDelivered, StatusRead, StatusFailed:
		return true
	default:
		return false
	}
}

func (d Direction) Valid() bool {
	return d == DirectionOutbound || d == DirectionInbound
}

func (t MessageType) Valid() bool {
	switch t {
	case TypeText, TypeTemplate, TypePaymentLink, TypeImage, TypeDocument, TypeAudio, TypeVideo:
		return true
	default:
		return false
	}
}
