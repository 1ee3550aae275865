package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moby/moby/api/types/image"
	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/types"
)

// ListImages retrieves the images matching filter
func (c *Client) ListImages(ctx context.Context, filter types.Filter) ([]types.ImageSummary, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	result, err := c.cli.ImageList(ctx, client.ImageListOptions{
		All:     false,
		Filters: resourceFilters(filter, "reference"),
	})
	if err != nil {
		return nil, wrapError(err, "list images", TimeoutQuick)
	}

	images := make([]types.ImageSummary, 0, len(result.Items))
	for _, img := range result.Items {
		images = append(images, parseImage(img))
	}
	return images, nil
}

func parseImage(img image.Summary) types.ImageSummary {
	name := types.None
	if len(img.RepoTags) > 0 {
		name = img.RepoTags[0]
	}
	return types.ImageSummary{
		ID:      img.ID,
		Name:    name,
		Size:    img.Size,
		Created: time.Unix(img.Created, 0),
	}
}

// GetImage returns the indented inspect document of an image.
func (c *Client) GetImage(ctx context.Context, id string) (string, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	var raw bytes.Buffer
	inspectResult, err := c.cli.ImageInspect(ctx, id, client.ImageInspectWithRawResponse(&raw))
	if err != nil {
		return "", wrapError(err, "inspect image", TimeoutQuick)
	}
	if raw.Len() > 0 {
		return indentJSON(raw.Bytes())
	}

	jsonBytes, err := json.Marshal(inspectResult.InspectResponse)
	if err != nil {
		return "", fmt.Errorf("failed to marshal inspect result: %w", err)
	}
	return indentJSON(jsonBytes)
}

// DeleteImage removes an image. Images still used by a container are kept.
func (c *Client) DeleteImage(ctx context.Context, id string) error {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutMedium)
	defer cancel()

	_, err := c.cli.ImageRemove(ctx, id, client.ImageRemoveOptions{
		Force:         false,
		PruneChildren: true,
	})
	return wrapError(err, "delete image", TimeoutMedium)
}
