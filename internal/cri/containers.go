package cri

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	runtimeapi "k8s.io/cri-api/pkg/apis/runtime/v1"

	"github.com/pyaillet/doggy/internal/types"
)

// ListContainers lists containers matching filter. Without all only running
// containers are returned.
func (c *Client) ListContainers(ctx context.Context, all bool, filter types.Filter) ([]types.ContainerSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, TimeoutQuick)
	defer cancel()

	resp, err := c.runtime.ListContainers(ctx, &runtimeapi.ListContainersRequest{
		Filter: containerFilter(all, filter),
	})
	if err != nil {
		return nil, wrapError(err, "list containers", TimeoutQuick)
	}

	containers := make([]types.ContainerSummary, 0, len(resp.GetContainers()))
	for _, ctr := range resp.GetContainers() {
		summary := parseContainer(ctr)
		if matchFilter(summary, filter) {
			containers = append(containers, summary)
		}
	}
	return containers, nil
}

// containerFilter pushes what the runtime can filter on to the server.
func containerFilter(all bool, filter types.Filter) *runtimeapi.ContainerFilter {
	f := &runtimeapi.ContainerFilter{}
	if !all {
		f.State = &runtimeapi.ContainerStateValue{State: runtimeapi.ContainerState_CONTAINER_RUNNING}
	}
	if filter.Key == "label" {
		key, value, _ := strings.Cut(filter.Value, "=")
		f.LabelSelector = map[string]string{key: value}
	}
	return f
}

// matchFilter applies name, id and label matching on the client side.
func matchFilter(c types.ContainerSummary, filter types.Filter) bool {
	switch filter.Key {
	case "":
		return true
	case "name":
		return strings.Contains(c.Name, filter.Value)
	case "id":
		return strings.HasPrefix(c.ID, filter.Value)
	case "label":
		key, value, hasValue := strings.Cut(filter.Value, "=")
		v, ok := c.Labels[key]
		return ok && (!hasValue || v == value)
	default:
		v, ok := c.Labels[filter.Key]
		return ok && v == filter.Value
	}
}

func parseContainer(ctr *runtimeapi.Container) types.ContainerSummary {
	name := ctr.GetMetadata().GetName()
	if name == "" {
		name = types.None
	}
	return types.ContainerSummary{
		ID:      ctr.GetId(),
		Name:    name,
		Image:   ctr.GetImage().GetImage(),
		ImageID: ctr.GetImageRef(),
		Status:  parseState(ctr.GetState()),
		Created: time.Unix(0, ctr.GetCreatedAt()),
		Labels:  ctr.GetLabels(),
	}
}

func parseState(state runtimeapi.ContainerState) types.ContainerStatus {
	switch state {
	case runtimeapi.ContainerState_CONTAINER_CREATED:
		return types.StatusCreated
	case runtimeapi.ContainerState_CONTAINER_RUNNING:
		return types.StatusRunning
	case runtimeapi.ContainerState_CONTAINER_EXITED:
		return types.StatusExited
	default:
		return types.StatusUnknown
	}
}

func (c *Client) containerStatus(ctx context.Context, id string) (*runtimeapi.ContainerStatusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, TimeoutQuick)
	defer cancel()

	resp, err := c.runtime.ContainerStatus(ctx, &runtimeapi.ContainerStatusRequest{
		ContainerId: id,
		Verbose:     true,
	})
	if err != nil {
		return nil, wrapError(err, "inspect container", TimeoutQuick)
	}
	return resp, nil
}

// GetContainer returns the container status and the verbose runtime info as
// one JSON document.
func (c *Client) GetContainer(ctx context.Context, id string) (string, error) {
	resp, err := c.containerStatus(ctx, id)
	if err != nil {
		return "", err
	}
	return indentJSON(inspectDocument(resp))
}

func inspectDocument(resp *runtimeapi.ContainerStatusResponse) map[string]any {
	doc := map[string]any{"status": resp.GetStatus()}
	if info := decodeInfo(resp.GetInfo()); len(info) > 0 {
		doc["info"] = info
	}
	return doc
}

// decodeInfo expands verbose info values, which are JSON documents themselves.
func decodeInfo(raw map[string]string) map[string]any {
	info := make(map[string]any, len(raw))
	for k, v := range raw {
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			info[k] = decoded
		} else {
			info[k] = v
		}
	}
	return info
}

// verboseInfo is the part of containerd's verbose info shown in the detail view.
type verboseInfo struct {
	Config struct {
		Envs []struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		} `json:"envs"`
		Command []string `json:"command"`
		Args    []string `json:"args"`
	} `json:"config"`
}

// GetContainerDetails decodes the container status.
func (c *Client) GetContainerDetails(ctx context.Context, id string) (types.ContainerDetails, error) {
	resp, err := c.containerStatus(ctx, id)
	if err != nil {
		return types.ContainerDetails{}, err
	}
	return parseDetails(resp), nil
}

func parseDetails(resp *runtimeapi.ContainerStatusResponse) types.ContainerDetails {
	st := resp.GetStatus()
	details := types.ContainerDetails{
		ID:      st.GetId(),
		Name:    st.GetMetadata().GetName(),
		Image:   st.GetImage().GetImage(),
		ImageID: st.GetImageRef(),
		Created: time.Unix(0, st.GetCreatedAt()),
		Status:  parseState(st.GetState()),
		Health:  st.GetReason(),
		Labels:  st.GetLabels(),
	}

	for _, m := range st.GetMounts() {
		mode := "rw"
		if m.GetReadonly() {
			mode = "ro"
		}
		details.Mounts = append(details.Mounts, fmt.Sprintf("bind %s:%s (%s)", m.GetHostPath(), m.GetContainerPath(), mode))
	}

	if raw, ok := resp.GetInfo()["info"]; ok {
		var info verboseInfo
		if err := json.Unmarshal([]byte(raw), &info); err == nil {
			details.Entrypoint = info.Config.Command
			details.Command = info.Config.Args
			for _, env := range info.Config.Envs {
				details.Env = append(details.Env, env.Key+"="+env.Value)
			}
			sort.Strings(details.Env)
		}
	}
	return details
}

// DeleteContainer removes a container
func (c *Client) DeleteContainer(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, TimeoutMedium)
	defer cancel()

	_, err := c.runtime.RemoveContainer(ctx, &runtimeapi.RemoveContainerRequest{ContainerId: id})
	return wrapError(err, "delete container", TimeoutMedium)
}
