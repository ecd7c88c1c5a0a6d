package payload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const DefaultScriptExecutor = "/bin/sh -c"

var ErrIncompleteWorkload = errors.New("incomplete workload")

type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"-"`
	Region          string `json:"region"`
}

// Workload describes the single container run and where its output goes.
// It is built once from the command line and never modified afterwards.
type Workload struct {
	RunID     uuid.UUID      `json:"run_id"`
	Image     string         `json:"image"`
	Command   string         `json:"command"`
	LogGroup  string         `json:"log_group"`
	LogStream string         `json:"log_stream"`
	AWS       AWSCredentials `json:"aws"`
}

func NewWorkload(image, command, group, stream string, creds AWSCredentials) Workload {
	return Workload{
		RunID:     uuid.New(),
		Image:     image,
		Command:   command,
		LogGroup:  group,
		LogStream: stream,
		AWS:       creds,
	}
}

// Validate reports every empty field at once.
func (w Workload) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"image", w.Image},
		{"command", w.Command},
		{"log group", w.LogGroup},
		{"log stream", w.LogStream},
		{"aws access key id", w.AWS.AccessKeyID},
		{"aws secret access key", w.AWS.SecretAccessKey},
		{"aws region", w.AWS.Region},
	}

	var errs []error
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%w: %s is empty", ErrIncompleteWorkload, f.name))
		}
	}
	return errors.Join(errs...)
}

// ShellCommand wraps the command with the given executor, e.g. "/bin/sh -c".
func (w Workload) ShellCommand(executor string) []string {
	if strings.TrimSpace(executor) == "" {
		executor = DefaultScriptExecutor
	}
	return append(strings.Fields(executor), w.Command)
}
