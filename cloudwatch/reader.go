package cloudwatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logs "github.com/ls1intum/dockwatch/log"
)

const maxReadPages = 100

// Reader fetches events back from a log stream, e.g. to confirm delivery.
type Reader struct {
	api    LogsAPI
	logger *slog.Logger
}

func NewReader(api LogsAPI, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{api: api, logger: logger}
}

// Events returns the events of a stream from the oldest on. Paging stops when
// the forward token no longer changes.
func (r *Reader) Events(ctx context.Context, group, stream string) ([]logs.Event, error) {
	var events []logs.Event
	var token *string

	for page := 0; page < maxReadPages; page++ {
		out, err := r.api.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
			LogGroupName:  aws.String(group),
			LogStreamName: aws.String(stream),
			StartFromHead: aws.Bool(true),
			NextToken:     token,
		})
		if err != nil {
			return events, fmt.Errorf("getting log events for %s/%s: %w", group, stream, err)
		}

		for _, e := range out.Events {
			events = append(events, logs.Event{
				Timestamp: time.UnixMilli(aws.ToInt64(e.Timestamp)),
				Message:   aws.ToString(e.Message),
			})
		}

		if out.NextForwardToken == nil || (token != nil && *out.NextForwardToken == *token) {
			break
		}
		token = out.NextForwardToken
	}

	r.logger.Debug("Read log events",
		slog.String("log_group", group),
		slog.String("log_stream", stream),
		slog.Int("count", len(events)))
	return events, nil
}
