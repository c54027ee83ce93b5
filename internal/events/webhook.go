package events

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookPublisher POSTs events to an external subscriber endpoint. It is an
// alternative sink for deployments without a Redis-backed socket gateway.
//
// The client retries transient failures on its own; callers still treat a
// final error as non-fatal.

type WebhookPublisher struct {
	client *resty.Client
	url    string
}

type WebhookConfig struct {
	URL     string
	AuthKey string
	Timeout time.Duration
}

func NewWebhookPublisher(cfg WebhookConfig) (*WebhookPublisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("events: webhook url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json")
	if cfg.AuthKey != "" {
		client.SetHeader("x-event-auth-key", cfg.AuthKey)
	}

	return &WebhookPublisher{client: client, url: cfg.URL}, nil
}

func (p *WebhookPublisher) Publish(ctx context.Context, e Event) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(e).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("events: webhook post: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("events: webhook returned status %d", resp.StatusCode())
	}
	return nil
}
