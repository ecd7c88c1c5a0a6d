package cloudwatch

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// Provisioner makes sure the destination log group and stream exist.
// Both operations are idempotent.
type Provisioner struct {
	api    LogsAPI
	logger *slog.Logger
}

func NewProvisioner(api LogsAPI, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{api: api, logger: logger}
}

// EnsureLogGroup creates the log group unless it already exists.
func (p *Provisioner) EnsureLogGroup(ctx context.Context, name string) error {
	_, err := p.api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(name),
	})
	if err == nil {
		p.logger.Info("Log group created", slog.String("log_group", name))
	}
	return HandleError(p.logger, "CreateLogGroup", name, err)
}

// EnsureLogStream creates the log stream in group unless it already exists.
func (p *Provisioner) EnsureLogStream(ctx context.Context, group, name string) error {
	_, err := p.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(name),
	})
	if err == nil {
		p.logger.Info("Log stream created", slog.String("log_group", group), slog.String("log_stream", name))
	}
	return HandleError(p.logger, "CreateLogStream", group+"/"+name, err)
}
