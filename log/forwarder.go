package log

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineSize       = 1024 * 1024
)

// Forwarder relays container output to a Publisher, one event per line,
// in the order the lines were read.
type Forwarder struct {
	publisher          Publisher
	logger             *slog.Logger
	now                func() time.Time
	emissionTimestamps bool
}

type ForwarderOption func(*Forwarder)

// WithClock replaces the clock used to stamp events.
func WithClock(now func() time.Time) ForwarderOption {
	return func(f *Forwarder) {
		f.now = now
	}
}

// WithEmissionTimestamps stamps events with the time Docker recorded for the
// line instead of the time it is forwarded. The log stream must be opened
// with timestamps enabled.
func WithEmissionTimestamps() ForwarderOption {
	return func(f *Forwarder) {
		f.emissionTimestamps = true
	}
}

func WithLogger(logger *slog.Logger) ForwarderOption {
	return func(f *Forwarder) {
		f.logger = logger
	}
}

func NewForwarder(publisher Publisher, options ...ForwarderOption) *Forwarder {
	f := &Forwarder{
		publisher: publisher,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// Forward reads r until EOF and publishes every non-empty line. Each publish
// completes before the next line is read. The first publish error ends
// forwarding and is returned together with the number of events published.
func (f *Forwarder) Forward(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialLineBuffer), maxLineSize)

	forwarded := 0
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := ctx.Err(); err != nil {
			return forwarded, err
		}

		event, ok := f.newEvent(scanner.Text())
		if !ok {
			f.logger.Debug("Skipping empty line", slog.Int("line_number", lineNumber))
			continue
		}

		f.logger.Debug("Container log", slog.String("line", event.Message))
		if err := f.publisher.PublishEvent(ctx, event); err != nil {
			f.logger.Error("Failed to forward log line",
				slog.Int("line_number", lineNumber),
				slog.Int("forwarded", forwarded),
				slog.Any("error", err))
			return forwarded, fmt.Errorf("forwarding line %d: %w", lineNumber, err)
		}
		forwarded++
	}

	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return forwarded, ctxErr
		}
		return forwarded, fmt.Errorf("reading container output: %w", err)
	}

	f.logger.Debug("Container output drained", slog.Int("forwarded", forwarded))
	return forwarded, nil
}

func (f *Forwarder) newEvent(line string) (Event, bool) {
	// Forward time is the default; emission time is opt-in.
	timestamp := f.now()
	if f.emissionTimestamps {
		if ts, rest, ok := splitTimestamp(line); ok {
			timestamp = ts
			line = rest
		} else {
			f.logger.Debug("Failed to parse log timestamp, using forward time", slog.String("line", line))
		}
	}

	line = normalizeLine(line)
	if line == "" {
		return Event{}, false
	}
	return Event{Timestamp: timestamp, Message: line}, true
}
