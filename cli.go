package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ls1intum/dockwatch/payload"
	"github.com/spf13/pflag"
)

var ErrMissingFlags = errors.New("missing required flags")

// requiredFlags lists every flag that must be given; none has a default.
var requiredFlags = []string{
	"docker-image",
	"bash-command",
	"aws-cloudwatch-group",
	"aws-cloudwatch-stream",
	"aws-access-key-id",
	"aws-secret-access-key",
	"aws-region",
}

func parseFlags(args []string, output io.Writer) (payload.Workload, error) {
	fs := pflag.NewFlagSet("dockwatch", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, "Run a Docker container and log its output to AWS CloudWatch.")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Usage: dockwatch [flags]")
		fs.PrintDefaults()
	}

	image := fs.String("docker-image", "", "Name of the Docker image")
	command := fs.String("bash-command", "", "Bash command to run inside the Docker image")
	group := fs.String("aws-cloudwatch-group", "", "AWS CloudWatch log group name")
	stream := fs.String("aws-cloudwatch-stream", "", "AWS CloudWatch log stream name")
	accessKeyID := fs.String("aws-access-key-id", "", "AWS access key ID")
	secretAccessKey := fs.String("aws-secret-access-key", "", "AWS secret access key")
	region := fs.String("aws-region", "", "AWS region")

	if err := fs.Parse(args); err != nil {
		return payload.Workload{}, err
	}

	var missing []string
	for _, name := range requiredFlags {
		if !fs.Changed(name) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return payload.Workload{}, fmt.Errorf("%w: %s", ErrMissingFlags, strings.Join(missing, ", "))
	}
	if fs.NArg() > 0 {
		return payload.Workload{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	workload := payload.NewWorkload(*image, *command, *group, *stream, payload.AWSCredentials{
		AccessKeyID:     *accessKeyID,
		SecretAccessKey: *secretAccessKey,
		Region:          *region,
	})
	if err := workload.Validate(); err != nil {
		return payload.Workload{}, err
	}
	return workload, nil
}
