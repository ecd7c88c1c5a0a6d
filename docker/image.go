package docker

import (
	"context"
	"fmt"
	"io"

	imagetype "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
)

// pullImage pulls image and drains the progress stream. Errors reported
// inside the stream (e.g. a failed layer download) are returned as well.
func pullImage(ctx context.Context, cli API, image string) error {
	response, err := cli.ImagePull(ctx, image, imagetype.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	defer response.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(response, io.Discard, 0, false, nil); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	return nil
}
