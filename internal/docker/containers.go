package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/types"
)

// ListContainers lists containers matching filter, including stopped ones when all is set.
func (c *Client) ListContainers(ctx context.Context, all bool, filter types.Filter) ([]types.ContainerSummary, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	result, err := c.cli.ContainerList(ctx, client.ContainerListOptions{
		All:     all,
		Filters: toFilters(filter),
	})
	if err != nil {
		return nil, wrapError(err, "list containers", TimeoutQuick)
	}

	containers := make([]types.ContainerSummary, 0, len(result.Items))
	for _, dockerContainer := range result.Items {
		containers = append(containers, parseContainer(dockerContainer))
	}
	return containers, nil
}

// parseContainer converts a Docker API container to our display type
func parseContainer(dockerContainer container.Summary) types.ContainerSummary {
	name := types.None
	if len(dockerContainer.Names) > 0 {
		name = strings.TrimPrefix(dockerContainer.Names[0], "/")
	}

	return types.ContainerSummary{
		ID:      dockerContainer.ID,
		Name:    name,
		Image:   dockerContainer.Image,
		ImageID: dockerContainer.ImageID,
		Status:  types.ParseContainerStatus(string(dockerContainer.State)),
		Created: time.Unix(dockerContainer.Created, 0),
		Labels:  dockerContainer.Labels,
	}
}

// GetContainer returns the indented inspect document of a container.
func (c *Client) GetContainer(ctx context.Context, id string) (string, error) {
	raw, err := c.inspectRaw(ctx, id)
	if err != nil {
		return "", err
	}
	return indentJSON(raw)
}

func (c *Client) inspectRaw(ctx context.Context, id string) (json.RawMessage, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	inspectResult, err := c.cli.ContainerInspect(ctx, id, client.ContainerInspectOptions{})
	if err != nil {
		return nil, wrapError(err, "inspect container", TimeoutQuick)
	}
	if len(inspectResult.Raw) > 0 {
		return inspectResult.Raw, nil
	}
	raw, err := json.Marshal(inspectResult.Container)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inspect result: %w", err)
	}
	return raw, nil
}

// inspectDocument is the subset of the inspect payload the detail view shows.
type inspectDocument struct {
	ID      string `json:"Id"`
	Name    string
	Created string
	Image   string
	State   *struct {
		Status string
		Health *struct {
			Status string
		}
	}
	Config *struct {
		Image      string
		Tty        bool
		Labels     map[string]string
		Entrypoint []string
		Cmd        []string
		Env        []string
	}
	NetworkSettings *struct {
		Ports map[string][]struct {
			HostIP   string `json:"HostIp"`
			HostPort string
		}
		Networks map[string]struct {
			IPAddress string
		}
	}
	Mounts []struct {
		Type        string
		Name        string
		Source      string
		Destination string
		RW          bool
	}
}

// GetContainerDetails decodes the inspect document and the process list.
func (c *Client) GetContainerDetails(ctx context.Context, id string) (types.ContainerDetails, error) {
	raw, err := c.inspectRaw(ctx, id)
	if err != nil {
		return types.ContainerDetails{}, err
	}

	var doc inspectDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.ContainerDetails{}, fmt.Errorf("failed to decode inspect result: %w", err)
	}
	details := parseDetails(doc)

	if details.Status == types.StatusRunning {
		topCtx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
		defer cancel()
		top, err := c.cli.ContainerTop(topCtx, id, client.ContainerTopOptions{})
		if err != nil {
			return details, wrapError(err, "list container processes", TimeoutQuick)
		}
		details.Processes = parseProcesses(top.Titles, top.Processes)
	}
	return details, nil
}

func parseDetails(doc inspectDocument) types.ContainerDetails {
	details := types.ContainerDetails{
		ID:      doc.ID,
		Name:    strings.TrimPrefix(doc.Name, "/"),
		ImageID: doc.Image,
		Status:  types.StatusUnknown,
	}
	if t, err := time.Parse(time.RFC3339Nano, doc.Created); err == nil {
		details.Created = t
	}
	if doc.State != nil {
		details.Status = types.ParseContainerStatus(doc.State.Status)
		if doc.State.Health != nil {
			details.Health = doc.State.Health.Status
		}
	}
	if doc.Config != nil {
		details.Image = doc.Config.Image
		details.Labels = doc.Config.Labels
		details.Entrypoint = doc.Config.Entrypoint
		details.Command = doc.Config.Cmd
		details.Env = doc.Config.Env
	}
	if doc.NetworkSettings != nil {
		for port, bindings := range doc.NetworkSettings.Ports {
			if len(bindings) == 0 {
				details.Ports = append(details.Ports, port)
				continue
			}
			for _, b := range bindings {
				details.Ports = append(details.Ports, fmt.Sprintf("%s:%s->%s", b.HostIP, b.HostPort, port))
			}
		}
		for name, n := range doc.NetworkSettings.Networks {
			details.Networks = append(details.Networks, fmt.Sprintf("%s (%s)", name, n.IPAddress))
		}
		sort.Strings(details.Ports)
		sort.Strings(details.Networks)
	}
	for _, m := range doc.Mounts {
		source := m.Source
		if m.Type == "volume" && m.Name != "" {
			source = m.Name
		}
		mode := "ro"
		if m.RW {
			mode = "rw"
		}
		details.Mounts = append(details.Mounts, fmt.Sprintf("%s %s:%s (%s)", m.Type, source, m.Destination, mode))
	}
	return details
}

// parseProcesses picks the user, pid and command columns from a top listing,
// whatever ps format the daemon used.
func parseProcesses(titles []string, processes [][]string) []types.Process {
	uidCol, pidCol, cmdCol := -1, -1, -1
	for i, t := range titles {
		switch strings.ToUpper(t) {
		case "UID", "USER":
			uidCol = i
		case "PID":
			pidCol = i
		case "CMD", "COMMAND":
			cmdCol = i
		}
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return types.None
		}
		return row[i]
	}

	result := make([]types.Process, 0, len(processes))
	for _, row := range processes {
		result = append(result, types.Process{
			UID:     cell(row, uidCol),
			PID:     cell(row, pidCol),
			Command: cell(row, cmdCol),
		})
	}
	return result
}

// DeleteContainer removes a container
func (c *Client) DeleteContainer(ctx context.Context, id string) error {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutMedium)
	defer cancel()

	_, err := c.cli.ContainerRemove(ctx, id, client.ContainerRemoveOptions{
		Force:         false,
		RemoveVolumes: false,
	})
	return wrapError(err, "delete container", TimeoutMedium)
}

func indentJSON(raw []byte) (string, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format inspect result: %w", err)
	}
	return out.String(), nil
}
