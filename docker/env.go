package docker

import "time"

type EnvConfig struct {
	DockerHost           string        `env:"DOCKER_HOST" envDefault:"unix:///var/run/docker.sock"`
	ContainerAutoremove  bool          `env:"DOCKER_CONTAINER_AUTOREMOVE" envDefault:"true"`
	DockerScriptExecutor string        `env:"DOCKER_SCRIPT_EXECUTOR" envDefault:"/bin/sh -c"`
	CPULimit             uint          `env:"DOCKER_CPU_LIMIT"`    // Number of CPUs - e.g. '2'
	MemoryLimit          string        `env:"DOCKER_MEMORY_LIMIT"` // RAM usage in g or m  - e.g. '512m'
	PullImage            bool          `env:"DOCKER_PULL_IMAGE" envDefault:"true"`
	StopTimeout          time.Duration `env:"DOCKER_STOP_TIMEOUT" envDefault:"10s"`
	EmissionTimestamps   bool          `env:"EMISSION_TIMESTAMPS" envDefault:"false"`
}

// RuntimeOptions translates the environment into runtime options.
func (c EnvConfig) RuntimeOptions() []RuntimeOption {
	return []RuntimeOption{
		WithDockerHost(c.DockerHost),
		WithContainerAutoremove(c.ContainerAutoremove),
		WithScriptExecutor(c.DockerScriptExecutor),
		WithCPULimit(c.CPULimit),
		WithMemoryLimit(c.MemoryLimit),
		WithPullImage(c.PullImage),
		WithStopTimeout(c.StopTimeout),
		WithTimestamps(c.EmissionTimestamps),
	}
}
