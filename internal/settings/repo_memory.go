package settings

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory config store for tests and early development.

type MemoryRepo struct {
	mu     sync.Mutex
	byName map[string]Entry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byName: map[string]Entry{}}
}

func (r *MemoryRepo) Get(ctx context.Context, name string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byName[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryRepo) List(ctx context.Context, category string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0)
	for _, e := range r.byName {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[e.Name] = e
	return nil
}
