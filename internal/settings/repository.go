package settings

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("settings: entry not found")

// Repository is the persistence contract for config entries.
// There is no Delete: entries are deactivated, never removed.

type Repository interface {
	Get(ctx context.Context, name string) (Entry, error)
	List(ctx context.Context, category string) ([]Entry, error)
	Upsert(ctx context.Context, e Entry) error
}
