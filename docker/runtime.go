package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/ls1intum/dockwatch/payload"
	"github.com/ls1intum/dockwatch/utils"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	runIDLabel = "dockwatch.run_id"
	// extra time granted to cleanup on top of the stop timeout
	cleanupGrace = 30 * time.Second
)

// API is the subset of the Docker Engine client used to run one container.
type API interface {
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Close() error
}

var _ API = (*client.Client)(nil)

type Options struct {
	scriptExecutor      string
	containerAutoremove bool
	cpuLimit            uint
	memoryLimit         string
	pullImage           bool
	timestamps          bool
	stopTimeout         time.Duration
}

// Runtime starts containers and owns their lifecycle.
type Runtime struct {
	Options
	cli    API
	logger *slog.Logger
}

func NewRuntime(options ...RuntimeOption) (*Runtime, error) {
	r := &Runtime{
		Options: Options{
			scriptExecutor:      payload.DefaultScriptExecutor,
			containerAutoremove: true,
			pullImage:           true,
			stopTimeout:         10 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	if r.cli == nil {
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			slog.Error("Failed to create Docker client", slog.Any("error", err))
			return nil, err
		}
		r.cli = cli
	}

	return r, nil
}

// Timestamps reports whether log lines carry Docker's emission timestamp.
func (r *Runtime) Timestamps() bool {
	return r.timestamps
}

func (r *Runtime) Close() error {
	return r.cli.Close()
}

// Start creates and starts one detached container running the workload
// command through the script executor. There is no retry.
func (r *Runtime) Start(ctx context.Context, workload payload.Workload) (*Container, error) {
	logger := r.logger.With(slog.String("image", workload.Image))

	if r.pullImage {
		if err := pullImage(ctx, r.cli, workload.Image); err != nil {
			logger.Error("Failed to pull image", slog.Any("error", err))
			return nil, err
		}
	}

	containerConfig := container.Config{
		Image:      workload.Image,
		Entrypoint: workload.ShellCommand(r.scriptExecutor),
		Labels:     map[string]string{runIDLabel: workload.RunID.String()},
	}

	hostConfig := container.HostConfig{}
	if r.cpuLimit != 0 {
		logger.Debug("Setting CPU limit", slog.Uint64("limit", uint64(r.cpuLimit)))
		hostConfig.Resources.NanoCPUs = int64(r.cpuLimit) * 1e9
	}
	if ramLimit := utils.FindMemoryLimit(r.memoryLimit, ""); ramLimit != 0 {
		logger.Debug("Setting RAM limit", slog.Int64("limit", ramLimit))
		hostConfig.Resources.Memory = ramLimit
	}

	resp, err := r.cli.ContainerCreate(ctx, &containerConfig, &hostConfig, nil, nil, "")
	if err != nil {
		logger.Error("Failed to create container", slog.Any("error", err))
		return nil, fmt.Errorf("creating container from %s: %w", workload.Image, err)
	}
	for _, warning := range resp.Warnings {
		logger.Warn("Docker warning", slog.String("warning", warning))
	}

	c := newContainer(r.cli, resp.ID, workload.Image, r.Options, logger)

	if err := r.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		logger.Error("Failed to start container", slog.Any("error", err), slog.String("container_id", resp.ID))
		cleanupCtx, cancel := r.cleanupContext(ctx)
		defer cancel()
		if rmErr := c.Remove(cleanupCtx); rmErr != nil {
			logger.Error("Failed to remove container that did not start", slog.Any("error", rmErr))
		}
		return nil, fmt.Errorf("starting container from %s: %w", workload.Image, err)
	}
	c.state = StateRunning

	logger.Info("Docker container started", slog.String("container_id", c.ShortID()))
	return c, nil
}

// Managed starts the workload container and hands it to fn. However fn ends,
// by returning, failing, panicking or through cancellation of ctx, the
// container is stopped and then removed if autoremove is enabled. Cleanup
// errors are logged and only returned when fn itself succeeded.
func (r *Runtime) Managed(ctx context.Context, workload payload.Workload, fn func(ctx context.Context, c *Container) error) (err error) {
	c, err := r.Start(ctx, workload)
	if err != nil {
		return err
	}

	defer func() {
		if cleanupErr := r.release(ctx, c); cleanupErr != nil && err == nil {
			err = cleanupErr
		}
	}()

	return fn(ctx, c)
}

func (r *Runtime) release(ctx context.Context, c *Container) error {
	// cleanup must outlive a cancelled parent
	cleanupCtx, cancel := r.cleanupContext(ctx)
	defer cancel()

	var errs []error
	if err := c.Stop(cleanupCtx); err != nil {
		r.logger.Error("Failed to stop container", slog.String("container_id", c.ShortID()), slog.Any("error", err))
		errs = append(errs, err)
	}

	if !r.containerAutoremove {
		r.logger.Info("Docker container stopped", slog.String("container_id", c.ShortID()))
		return errors.Join(errs...)
	}

	if err := c.Remove(cleanupCtx); err != nil {
		r.logger.Error("Failed to remove container", slog.String("container_id", c.ShortID()), slog.Any("error", err))
		errs = append(errs, err)
	} else {
		r.logger.Info("Docker container stopped and removed", slog.String("container_id", c.ID()))
	}
	return errors.Join(errs...)
}

func (r *Runtime) cleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), r.stopTimeout+cleanupGrace)
}
