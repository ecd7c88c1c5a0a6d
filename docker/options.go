package docker

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/docker/docker/client"
	"github.com/ls1intum/dockwatch/utils"
)

type RuntimeOption func(*Runtime) error

func WithDockerHost(dockerHost string) RuntimeOption {
	return func(r *Runtime) error {
		cli, err := client.NewClientWithOpts(client.WithHost(dockerHost), client.WithAPIVersionNegotiation())
		if err != nil {
			return fmt.Errorf("creating Docker client for %s: %w", dockerHost, err)
		}
		r.cli = cli
		return nil
	}
}

// WithClient sets the Docker API implementation directly.
func WithClient(cli API) RuntimeOption {
	return func(r *Runtime) error {
		r.cli = cli
		return nil
	}
}

func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(r *Runtime) error {
		r.logger = logger
		return nil
	}
}

func WithScriptExecutor(scriptExecutor string) RuntimeOption {
	return func(r *Runtime) error {
		if strings.TrimSpace(scriptExecutor) == "" {
			return fmt.Errorf("empty script executor")
		}
		r.scriptExecutor = scriptExecutor
		return nil
	}
}

func WithContainerAutoremove(autoremove bool) RuntimeOption {
	return func(r *Runtime) error {
		r.containerAutoremove = autoremove
		return nil
	}
}

func WithCPULimit(cpuLimit uint) RuntimeOption {
	return func(r *Runtime) error {
		r.cpuLimit = cpuLimit
		return nil
	}
}

func WithMemoryLimit(memoryLimit string) RuntimeOption {
	return func(r *Runtime) error {
		if memoryLimit != "" {
			if _, err := utils.ParseMemoryLimit(memoryLimit); err != nil {
				return err
			}
		}
		r.memoryLimit = memoryLimit
		return nil
	}
}

func WithPullImage(pull bool) RuntimeOption {
	return func(r *Runtime) error {
		r.pullImage = pull
		return nil
	}
}

// WithTimestamps asks Docker to prefix every log line with its emission time.
func WithTimestamps(timestamps bool) RuntimeOption {
	return func(r *Runtime) error {
		r.timestamps = timestamps
		return nil
	}
}

func WithStopTimeout(timeout time.Duration) RuntimeOption {
	return func(r *Runtime) error {
		if timeout < 0 {
			return fmt.Errorf("negative stop timeout %s", timeout)
		}
		r.stopTimeout = timeout
		return nil
	}
}
