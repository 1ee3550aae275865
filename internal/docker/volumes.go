package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moby/moby/api/types/volume"
	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/types"
)

// ListVolumes retrieves the volumes matching filter
func (c *Client) ListVolumes(ctx context.Context, filter types.Filter) ([]types.VolumeSummary, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	result, err := c.cli.VolumeList(ctx, client.VolumeListOptions{
		Filters: resourceFilters(filter, "name"),
	})
	if err != nil {
		return nil, wrapError(err, "list volumes", TimeoutQuick)
	}

	volumes := make([]types.VolumeSummary, 0, len(result.Items))
	for _, vol := range result.Items {
		volumes = append(volumes, parseVolume(vol))
	}
	return volumes, nil
}

// parseVolume converts a volume; Size is -1 when the engine did not compute usage.
func parseVolume(vol volume.Volume) types.VolumeSummary {
	summary := types.VolumeSummary{
		ID:     vol.Name,
		Driver: vol.Driver,
		Size:   -1,
	}
	if vol.UsageData != nil {
		summary.Size = vol.UsageData.Size
	}
	if vol.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, vol.CreatedAt); err == nil {
			summary.Created = t
		}
	}
	return summary
}

// GetVolume returns the indented inspect document of a volume.
func (c *Client) GetVolume(ctx context.Context, id string) (string, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	inspectResult, err := c.cli.VolumeInspect(ctx, id, client.VolumeInspectOptions{})
	if err != nil {
		return "", wrapError(err, "inspect volume", TimeoutQuick)
	}
	if len(inspectResult.Raw) > 0 {
		return indentJSON(inspectResult.Raw)
	}

	jsonBytes, err := json.Marshal(inspectResult.Volume)
	if err != nil {
		return "", fmt.Errorf("failed to marshal inspect result: %w", err)
	}
	return indentJSON(jsonBytes)
}

// DeleteVolume removes a volume
func (c *Client) DeleteVolume(ctx context.Context, id string) error {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutMedium)
	defer cancel()

	_, err := c.cli.VolumeRemove(ctx, id, client.VolumeRemoveOptions{Force: false})
	return wrapError(err, "delete volume", TimeoutMedium)
}
