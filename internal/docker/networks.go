package docker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moby/moby/api/types/network"
	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/types"
)

// ListNetworks retrieves the networks matching filter
func (c *Client) ListNetworks(ctx context.Context, filter types.Filter) ([]types.NetworkSummary, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	result, err := c.cli.NetworkList(ctx, client.NetworkListOptions{
		Filters: resourceFilters(filter, "name"),
	})
	if err != nil {
		return nil, wrapError(err, "list networks", TimeoutQuick)
	}

	networks := make([]types.NetworkSummary, 0, len(result.Items))
	for _, net := range result.Items {
		networks = append(networks, parseNetwork(net))
	}
	return networks, nil
}

func parseNetwork(net network.Summary) types.NetworkSummary {
	return types.NetworkSummary{
		ID:      net.ID,
		Name:    net.Name,
		Driver:  net.Driver,
		Created: net.Created,
	}
}

// GetNetwork returns the indented inspect document of a network.
func (c *Client) GetNetwork(ctx context.Context, id string) (string, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	inspectResult, err := c.cli.NetworkInspect(ctx, id, client.NetworkInspectOptions{})
	if err != nil {
		return "", wrapError(err, "inspect network", TimeoutQuick)
	}
	if len(inspectResult.Raw) > 0 {
		return indentJSON(inspectResult.Raw)
	}

	jsonBytes, err := json.Marshal(inspectResult.Network)
	if err != nil {
		return "", fmt.Errorf("failed to marshal inspect result: %w", err)
	}
	return indentJSON(jsonBytes)
}

// DeleteNetwork removes a network
func (c *Client) DeleteNetwork(ctx context.Context, id string) error {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutMedium)
	defer cancel()

	_, err := c.cli.NetworkRemove(ctx, id, client.NetworkRemoveOptions{})
	return wrapError(err, "delete network", TimeoutMedium)
}
