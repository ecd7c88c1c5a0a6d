package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ls1intum/dockwatch/cloudwatch"
	"github.com/ls1intum/dockwatch/docker"
	logs "github.com/ls1intum/dockwatch/log"
	"github.com/ls1intum/dockwatch/payload"
)

// pipeline provisions the log destination, runs the container and forwards
// its output, strictly in that order.
type pipeline struct {
	provisioner *cloudwatch.Provisioner
	runtime     *docker.Runtime
	forwarder   *logs.Forwarder
	// reader is set when delivered events should be read back after the run
	reader *cloudwatch.Reader
	logger *slog.Logger
}

func newPipeline(api cloudwatch.LogsAPI, runtime *docker.Runtime, workload payload.Workload, verifyDelivery bool, logger *slog.Logger) *pipeline {
	forwarderOpts := []logs.ForwarderOption{logs.WithLogger(logger)}
	if runtime.Timestamps() {
		forwarderOpts = append(forwarderOpts, logs.WithEmissionTimestamps())
	}

	p := &pipeline{
		provisioner: cloudwatch.NewProvisioner(api, logger),
		runtime:     runtime,
		forwarder: logs.NewForwarder(
			cloudwatch.NewPublisher(api, workload.LogGroup, workload.LogStream, logger),
			forwarderOpts...,
		),
		logger: logger,
	}
	if verifyDelivery {
		p.reader = cloudwatch.NewReader(api, logger)
	}
	return p
}

func (p *pipeline) run(ctx context.Context, workload payload.Workload) error {
	if err := p.provisioner.EnsureLogGroup(ctx, workload.LogGroup); err != nil {
		return fmt.Errorf("provisioning log group: %w", err)
	}
	if err := p.provisioner.EnsureLogStream(ctx, workload.LogGroup, workload.LogStream); err != nil {
		return fmt.Errorf("provisioning log stream: %w", err)
	}

	err := p.runtime.Managed(ctx, workload, func(ctx context.Context, c *docker.Container) error {
		stream, err := c.Logs(ctx)
		if err != nil {
			return err
		}
		defer stream.Close()

		forwarded, err := p.forwarder.Forward(ctx, stream)
		if err != nil {
			return err
		}

		exitCode, err := c.Wait(ctx)
		if err != nil {
			p.logger.Warn("Failed to read container exit status", slog.Any("error", err))
			return nil
		}
		level := slog.LevelInfo
		if exitCode != 0 {
			level = slog.LevelWarn
		}
		p.logger.Log(ctx, level, "Container exited",
			slog.Int64("exit_code", exitCode),
			slog.Int("forwarded", forwarded))
		return nil
	})
	if err != nil {
		return err
	}

	if p.reader != nil {
		p.verifyDelivery(ctx, workload)
	}
	return nil
}

// verifyDelivery logs what the log stream holds. It never fails the run.
func (p *pipeline) verifyDelivery(ctx context.Context, workload payload.Workload) {
	events, err := p.reader.Events(ctx, workload.LogGroup, workload.LogStream)
	if err != nil {
		p.logger.Error("Error getting log events", slog.Any("error", err))
		return
	}
	for _, event := range events {
		p.logger.Info("Log event", slog.String("message", event.Message))
	}
}
