package cloudwatch

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	logs "github.com/ls1intum/dockwatch/log"
)

// CloudWatch limits an event to 256 KiB including 26 bytes of overhead.
const maxMessageBytes = 256*1024 - 26

var _ logs.Publisher = (*Publisher)(nil)

// Publisher writes log events to one CloudWatch log stream, one event per call.
type Publisher struct {
	api    LogsAPI
	group  string
	stream string
	logger *slog.Logger
}

func NewPublisher(api LogsAPI, group, stream string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		api:    api,
		group:  group,
		stream: stream,
		logger: logger.With(slog.String("log_group", group), slog.String("log_stream", stream)),
	}
}

// PublishEvent sends a single event. Events rejected inside an otherwise
// successful response are logged and do not fail the call.
func (p *Publisher) PublishEvent(ctx context.Context, event logs.Event) error {
	out, err := p.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(p.group),
		LogStreamName: aws.String(p.stream),
		LogEvents: []types.InputLogEvent{
			{
				Timestamp: aws.Int64(event.Millis()),
				Message:   aws.String(truncateMessage(event.Message)),
			},
		},
	})
	if err != nil {
		return HandleError(p.logger, "PutLogEvents", p.group+"/"+p.stream, err)
	}

	if out != nil && out.RejectedLogEventsInfo != nil {
		p.logger.Error("Failed to send log to CloudWatch",
			slog.String("message", event.Message),
			rejectedAttr(out.RejectedLogEventsInfo))
		return nil
	}

	var requestID string
	if out != nil {
		requestID, _ = awsmiddleware.GetRequestIDMetadata(out.ResultMetadata)
	}
	p.logger.Debug("Successfully sent log to CloudWatch", slog.String("request_id", requestID))
	return nil
}

func rejectedAttr(info *types.RejectedLogEventsInfo) slog.Attr {
	var attrs []any
	if info.TooNewLogEventStartIndex != nil {
		attrs = append(attrs, slog.Int("too_new_start_index", int(*info.TooNewLogEventStartIndex)))
	}
	if info.TooOldLogEventEndIndex != nil {
		attrs = append(attrs, slog.Int("too_old_end_index", int(*info.TooOldLogEventEndIndex)))
	}
	if info.ExpiredLogEventEndIndex != nil {
		attrs = append(attrs, slog.Int("expired_end_index", int(*info.ExpiredLogEventEndIndex)))
	}
	return slog.Group("rejected", attrs...)
}

// truncateMessage cuts msg to the CloudWatch event limit on a rune boundary.
func truncateMessage(msg string) string {
	if len(msg) <= maxMessageBytes {
		return msg
	}
	cut := maxMessageBytes
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
