package messages

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory message repository for tests and early
// development. Not intended for production use.

type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Message
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Message{}}
}

func (r *MemoryRepo) Get(ctx context.Context, messageID string) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[messageID]
	if !ok {
		return Message{}, ErrNotFound
	}
	return m, nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Message, int, error) {
	f = f.Normalized()
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, 0)
	for _, m := range r.byID {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Direction != "" && m.Direction != f.Direction {
			continue
		}
		if f.Phone != "" && !strings.Contains(m.Phone, f.Phone) {
			continue
		}
		if f.CallID != "" && m.CallID != f.CallID {
			continue
		}
		if !f.CreatedFrom.IsZero() && m.CreatedAt.Before(f.CreatedFrom) {
			continue
		}
		if !f.CreatedTo.IsZero() && !m.CreatedAt.Before(f.CreatedTo) {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case "phone":
			less = out[i].Phone < out[j].Phone
		case "status":
			less = out[i].Status < out[j].Status
		default:
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if f.SortDesc {
			return !less
		}
		return less
	})

	total := len(out)
	start := (f.Page - 1) * f.Limit
	if start >= total {
		return []Message{}, total, nil
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[m.MessageID] = m
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[messageID]; !ok {
		return ErrNotFound
	}
	delete(r.byID, messageID)
	return nil
}

// ListInWindow returns messages created in [from, to). Zero bounds are
// unbounded; used by the analytics rollups.
func (r *MemoryRepo) ListInWindow(ctx context.Context, from, to time.Time) ([]Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, 0)
	for _, m := range r.byID {
		if !from.IsZero() && m.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !m.CreatedAt.Before(to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
