package calls

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("calls: record not found")

// ListFilter is the fixed predicate set supported by record listings.
// Zero values mean "no constraint".

type ListFilter struct {
	Status Status
	Type   CallType
	// Phone matches caller or receiver by substring.
	Phone       string
	CreatedFrom time.Time
	CreatedTo   time.Time

	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

func (f ListFilter) Normalized() ListFilter {
	out := f
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit < 1 || out.Limit > 100 {
		out.Limit = 20
	}
	if out.SortBy == "" {
		out.SortBy = "startTime"
		out.SortDesc = true
	}
	return out
}

// Repository is the persistence contract for call records.
//
// Reads and writes are atomic per record; concurrent updates to the same
// record are serialized by the store with last-write-wins semantics on the
// record as a whole.

type Repository interface {
	Get(ctx context.Context, callID string) (Call, error)
	List(ctx context.Context, f ListFilter) ([]Call, int, error)
	Upsert(ctx context.Context, c Call) error
	Delete(ctx context.Context, callID string) error

	// AttachMessage and DetachMessage maintain the message-reference list.
	AttachMessage(ctx context.Context, callID, messageID string) error
	DetachMessage(ctx context.Context, callID, messageID string) error
}
