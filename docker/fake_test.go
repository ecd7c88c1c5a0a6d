package docker

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const fakeContainerID = "0123456789abcdef0123456789abcdef"

// fakeDocker records every call in order and serves canned output.
type fakeDocker struct {
	mu       sync.Mutex
	calls    []string
	stdout   string
	stderr   string
	exitCode int64

	pullErr   error
	pullBody  string
	createErr error
	startErr  error
	logsErr   error
	stopErr   error
	removeErr error

	created    *container.Config
	hostConfig *container.HostConfig
	logOpts    container.LogsOptions
	stopOpts   container.StopOptions
}

func (f *fakeDocker) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeDocker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeDocker) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeDocker) ImagePull(ctx context.Context, ref string, _ image.PullOptions) (io.ReadCloser, error) {
	f.record("pull")
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	body := f.pullBody
	if body == "" {
		body = `{"status":"Pull complete"}` + "\n"
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *fakeDocker) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, _ string) (container.CreateResponse, error) {
	f.record("create")
	if f.createErr != nil {
		return container.CreateResponse{}, f.createErr
	}
	f.created = config
	f.hostConfig = hostConfig
	return container.CreateResponse{ID: fakeContainerID}, nil
}

func (f *fakeDocker) ContainerStart(ctx context.Context, id string, _ container.StartOptions) error {
	f.record("start")
	return f.startErr
}

func (f *fakeDocker) ContainerLogs(ctx context.Context, id string, opts container.LogsOptions) (io.ReadCloser, error) {
	f.record("logs")
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	f.logOpts = opts

	var buf bytes.Buffer
	if f.stdout != "" {
		stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(f.stdout))
	}
	if f.stderr != "" {
		stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(f.stderr))
	}
	return io.NopCloser(&buf), nil
}

func (f *fakeDocker) ContainerWait(ctx context.Context, id string, _ container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	f.record("wait")
	statusCh := make(chan container.WaitResponse, 1)
	statusCh <- container.WaitResponse{StatusCode: f.exitCode}
	return statusCh, make(chan error)
}

func (f *fakeDocker) ContainerStop(ctx context.Context, id string, opts container.StopOptions) error {
	f.record("stop")
	f.stopOpts = opts
	return f.stopErr
}

func (f *fakeDocker) ContainerRemove(ctx context.Context, id string, _ container.RemoveOptions) error {
	f.record("remove")
	return f.removeErr
}

func (f *fakeDocker) Close() error {
	return nil
}
