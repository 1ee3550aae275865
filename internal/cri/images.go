package cri

import (
	"context"
	"encoding/json"
	"strings"

	runtimeapi "k8s.io/cri-api/pkg/apis/runtime/v1"

	"github.com/pyaillet/doggy/internal/types"
)

// ListImages retrieves the images whose reference contains the filter value.
func (c *Client) ListImages(ctx context.Context, filter types.Filter) ([]types.ImageSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, TimeoutQuick)
	defer cancel()

	resp, err := c.images.ListImages(ctx, &runtimeapi.ListImagesRequest{})
	if err != nil {
		return nil, wrapError(err, "list images", TimeoutQuick)
	}

	images := make([]types.ImageSummary, 0, len(resp.GetImages()))
	for _, img := range resp.GetImages() {
		summary := parseImage(img)
		if filter.IsZero() || strings.Contains(summary.Name, filter.Value) || strings.HasPrefix(summary.ID, filter.Value) {
			images = append(images, summary)
		}
	}
	return images, nil
}

func parseImage(img *runtimeapi.Image) types.ImageSummary {
	name := types.None
	switch {
	case len(img.GetRepoTags()) > 0:
		name = img.GetRepoTags()[0]
	case len(img.GetRepoDigests()) > 0:
		name = img.GetRepoDigests()[0]
	}
	return types.ImageSummary{
		ID:   img.GetId(),
		Name: name,
		Size: imageSize(img),
	}
}

// imageSize reads the size from the JSON form of the message.
func imageSize(img *runtimeapi.Image) int64 {
	raw, err := json.Marshal(img)
	if err != nil {
		return 0
	}
	var sized struct {
		Size uint64 `json:"size"`
	}
	if err := json.Unmarshal(raw, &sized); err != nil {
		return 0
	}
	return int64(sized.Size)
}

// GetImage returns the image status and verbose info as one JSON document.
func (c *Client) GetImage(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, TimeoutQuick)
	defer cancel()

	resp, err := c.images.ImageStatus(ctx, &runtimeapi.ImageStatusRequest{
		Image:   &runtimeapi.ImageSpec{Image: id},
		Verbose: true,
	})
	if err != nil {
		return "", wrapError(err, "inspect image", TimeoutQuick)
	}

	doc := map[string]any{"image": resp.GetImage()}
	if info := decodeInfo(resp.GetInfo()); len(info) > 0 {
		doc["info"] = info
	}
	return indentJSON(doc)
}

// DeleteImage removes an image
func (c *Client) DeleteImage(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, TimeoutMedium)
	defer cancel()

	_, err := c.images.RemoveImage(ctx, &runtimeapi.RemoveImageRequest{
		Image: &runtimeapi.ImageSpec{Image: id},
	})
	return wrapError(err, "delete image", TimeoutMedium)
}
