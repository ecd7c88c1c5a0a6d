package log

import (
	"context"
	"log/slog"
)

// Publisher delivers one event to a log sink. Implementations decide which
// sink errors are fatal; a non-nil error stops forwarding.
type Publisher interface {
	PublishEvent(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, event Event) error

func (f PublisherFunc) PublishEvent(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// NoopPublisher is a no-op implementation of Publisher.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (n *NoopPublisher) PublishEvent(ctx context.Context, event Event) error {
	slog.Debug("Dropping log event", slog.String("message", event.Message))
	return nil
}
