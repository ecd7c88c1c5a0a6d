package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

type State string

const (
	StateCreated  State = "created"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateStopped  State = "stopped"
	StateRemoved  State = "removed"
)

func (s State) String() string {
	return string(s)
}

var ErrInvalidState = errors.New("invalid container state")

// Container is the handle of a container started by a Runtime. It is owned by
// a single goroutine and is not safe for concurrent use.
type Container struct {
	cli         API
	id          string
	image       string
	timestamps  bool
	stopTimeout int
	logger      *slog.Logger
	state       State
}

func newContainer(cli API, id, image string, opts Options, logger *slog.Logger) *Container {
	return &Container{
		cli:         cli,
		id:          id,
		image:       image,
		timestamps:  opts.timestamps,
		stopTimeout: int(opts.stopTimeout.Seconds()),
		logger:      logger.With(slog.String("container_id", shortID(id))),
		state:       StateCreated,
	}
}

func (c *Container) ID() string {
	return c.id
}

func (c *Container) ShortID() string {
	return shortID(c.id)
}

func (c *Container) State() State {
	return c.state
}

// Logs follows stdout and stderr of the container as one line stream. The
// stream ends when the container exits.
func (c *Container) Logs(ctx context.Context) (io.ReadCloser, error) {
	src, err := c.cli.ContainerLogs(ctx, c.id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Timestamps: c.timestamps,
	})
	if err != nil {
		return nil, fmt.Errorf("streaming logs of container %s: %w", c.ShortID(), err)
	}

	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, pw, src)
		pw.CloseWithError(err)
	}()

	return &logStream{PipeReader: pr, src: src}, nil
}

// Wait blocks until the container is no longer running and returns its exit code.
func (c *Container) Wait(ctx context.Context) (int64, error) {
	statusCh, errCh := c.cli.ContainerWait(ctx, c.id, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return -1, fmt.Errorf("waiting for container %s: %w", c.ShortID(), err)
	case status := <-statusCh:
		if status.Error != nil {
			return status.StatusCode, fmt.Errorf("waiting for container %s: %s", c.ShortID(), status.Error.Message)
		}
		return status.StatusCode, nil
	}
}

// Stop stops a running container. It is issued at most once; later calls are no-ops.
// The container counts as stopped once the call returned, even on error.
func (c *Container) Stop(ctx context.Context) error {
	switch c.state {
	case StateStopped, StateRemoved:
		return nil
	case StateCreated, StateRunning:
	default:
		return fmt.Errorf("%w: cannot stop container in state %s", ErrInvalidState, c.state)
	}

	c.state = StateStopping
	timeout := c.stopTimeout
	err := c.cli.ContainerStop(ctx, c.id, container.StopOptions{Timeout: &timeout})
	c.state = StateStopped
	if err != nil {
		return fmt.Errorf("stopping container %s: %w", c.ShortID(), err)
	}
	c.logger.Debug("Container stopped")
	return nil
}

// Remove deletes the container. A running container has to be stopped first.
func (c *Container) Remove(ctx context.Context) error {
	switch c.state {
	case StateRemoved:
		return nil
	case StateCreated, StateStopped:
	default:
		return fmt.Errorf("%w: cannot remove container in state %s", ErrInvalidState, c.state)
	}

	// Force covers a stop call that failed.
	if err := c.cli.ContainerRemove(ctx, c.id, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("removing container %s: %w", c.ShortID(), err)
	}
	c.state = StateRemoved
	c.logger.Debug("Container removed")
	return nil
}

type logStream struct {
	*io.PipeReader
	src io.ReadCloser
}

func (l *logStream) Close() error {
	l.PipeReader.Close()
	return l.src.Close()
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
