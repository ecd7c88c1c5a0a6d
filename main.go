package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ls1intum/dockwatch/cloudwatch"
	"github.com/ls1intum/dockwatch/docker"
	"github.com/ls1intum/dockwatch/utils"
	"github.com/spf13/pflag"
)

type DockwatchConfig struct {
	LogConfig      utils.LogConfig
	DockerConfig   docker.EnvConfig
	AWSEndpoint    string `env:"AWS_ENDPOINT_URL"`
	VerifyDelivery bool   `env:"VERIFY_DELIVERY" envDefault:"false"`
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

func realMain(args []string, stderr io.Writer) int {
	var cfg DockwatchConfig
	if err := utils.LoadConfig(&cfg); err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		return 1
	}

	_, closeLogs, err := utils.SetupLogging(cfg.LogConfig, stderr)
	if err != nil {
		slog.Error("Failed to set up logging", slog.Any("error", err))
		return 1
	}
	defer closeLogs()

	workload, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		utils.ComponentLogger("cli").Error("Invalid arguments", slog.Any("error", err))
		return 1
	}

	// SIGINT and SIGTERM cancel the run; container cleanup still happens.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := utils.RunLogger(workload.RunID.String())

	api, err := cloudwatch.NewClient(ctx, cloudwatch.Config{
		Region:          workload.AWS.Region,
		AccessKeyID:     workload.AWS.AccessKeyID,
		SecretAccessKey: workload.AWS.SecretAccessKey,
		Endpoint:        cfg.AWSEndpoint,
	})
	if err != nil {
		logger.Error("Failed to create CloudWatch client", slog.Any("error", err))
		return 1
	}

	runtime, err := docker.NewRuntime(append(cfg.DockerConfig.RuntimeOptions(), docker.WithLogger(logger))...)
	if err != nil {
		logger.Error("Failed to create Docker runtime", slog.Any("error", err))
		return 1
	}
	defer runtime.Close()

	logger.Info("Starting run",
		slog.String("image", workload.Image),
		slog.String("log_group", workload.LogGroup),
		slog.String("log_stream", workload.LogStream))

	if err := newPipeline(api, runtime, workload, cfg.VerifyDelivery, logger).run(ctx, workload); err != nil {
		logger.Error("Run failed", slog.Any("error", err))
		return 1
	}

	logger.Info("Run completed")
	return 0
}
