package messages

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("messages: record not found")

// ListFilter is the fixed predicate set supported by message listings.
// Zero values mean "no constraint".

type ListFilter struct {
	Status    Status
	Type      MessageType
	Direction Direction
	// Phone matches by substring.
	Phone       string
	CallID      string
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
		out.SortBy = "createdAt"
		out.SortDesc = true
	}
	return out
}

// Repository is the persistence contract for message records. Reads and
// writes are atomic per record; last write wins on the record as a whole.

type Repository interface {
	Get(ctx context.Context, messageID string) (Message, error)
	List(ctx context.Context, f ListFilter) ([]Message, int, error)
	Upsert(ctx context.Context, m Message) error
	Delete(ctx context.Context, messageID string) error
}
