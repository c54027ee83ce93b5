package calls

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory call record repository for tests and early
// development. It mirrors the store contract, including per-record atomicity
// under its mutex. Not intended for production use.

type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Call
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Call{}}
}

func (r *MemoryRepo) Get(ctx context.Context, callID string) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[callID]
	if !ok {
		return Call{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Call, int, error) {
	f = f.Normalized()
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Call, 0)
	for _, c := range r.byID {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.Phone != "" && !strings.Contains(c.Caller, f.Phone) && !strings.Contains(c.Receiver, f.Phone) {
			continue
		}
		if !f.CreatedFrom.IsZero() && c.CreatedAt.Before(f.CreatedFrom) {
			continue
		}
		if !f.CreatedTo.IsZero() && !c.CreatedAt.Before(f.CreatedTo) {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case "duration":
			less = out[i].DurationSeconds < out[j].DurationSeconds
		case "createdAt":
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			less = out[i].StartTime.Before(out[j].StartTime)
		}
		if f.SortDesc {
			return !less
		}
		return less
	})

	total := len(out)
	start := (f.Page - 1) * f.Limit
	if start >= total {
		return []Call{}, total, nil
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.CallID] = c
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, callID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[callID]; !ok {
		return ErrNotFound
	}
	delete(r.byID, callID)
	return nil
}

func (r *MemoryRepo) AttachMessage(ctx context.Context, callID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[callID]
	if !ok {
		return ErrNotFound
	}
	for _, id := range c.MessageIDs {
		if id == messageID {
			return nil
		}
	}
	c.MessageIDs = append(c.MessageIDs, messageID)
	r.byID[callID] = c
	return nil
}

func (r *MemoryRepo) DetachMessage(ctx context.Context, callID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[callID]
	if !ok {
		return ErrNotFound
	}
	kept := c.MessageIDs[:0]
	for _, id := range c.MessageIDs {
		if id != messageID {
			kept = append(kept, id)
		}
	}
	c.MessageIDs = kept
	r.byID[callID] = c
	return nil
}

// ListInWindow returns calls whose start time falls in [from, to).
// Zero bounds are unbounded; used by the analytics rollups.
func (r *MemoryRepo) ListInWindow(ctx context.Context, from, to time.Time) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, 0)
	for _, c := range r.byID {
		if !from.IsZero() && c.StartTime.Before(from) {
			continue
		}
		if !to.IsZero() && !c.StartTime.Before(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
