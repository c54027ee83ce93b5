package analytics

import (
	"context"
	"errors"
	"time"

	"engagement-platform/internal/calls"
	"engagement-platform/internal/messages"
)

// Record sources for the rollups. The rollups must read the same store the
// access layer writes to, with no intermediate cache, so a read immediately
// after a write observes it.
//
// Window semantics: calls are bounded by start time, messages by creation
// time; zero bounds are unbounded.

type CallSource interface {
	ListInWindow(ctx context.Context, from, to time.Time) ([]calls.Call, error)
}

type MessageSource interface {
	ListInWindow(ctx context.Context, from, to time.Time) ([]messages.Message, error)
}

// Repo bundles the two sources. Both the Postgres and the in-memory
// repositories satisfy the source interfaces.

type Repo struct {
	Calls    CallSource
	Messages MessageSource
}

var errNotConfigured = errors.New("analytics: repository not configured")

func (r Repo) callsInWindow(ctx context.Context, from, to time.Time) ([]calls.Call, error) {
	if r.Calls == nil {
		return nil, errNotConfigured
	}
	return r.Calls.ListInWindow(ctx, from, to)
}

func (r Repo) messagesInWindow(ctx context.Context, from, to time.Time) ([]messages.Message, error) {
	if r.Messages == nil {
		return nil, errNotConfigured
	}
	return r.Messages.ListInWindow(ctx, from, to)
}
