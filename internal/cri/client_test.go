package cri

import (
	"context"
	"errors"
	"testing"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	runtimeapi "k8s.io/cri-api/pkg/apis/runtime/v1"

	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/types"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient("/tmp/doggy-test-cri.sock")
	require.NoError(t, err)
	assert.Equal(t, "unix:///tmp/doggy-test-cri.sock", client.endpoint)
	assert.True(t, client.ValidateFilter("anything=goes"))
	assert.NoError(t, client.Close())
}

func TestUnsupportedResources(t *testing.T) {
	client := &Client{}
	ctx := context.Background()

	_, err := client.ListVolumes(ctx, types.Filter{})
	assert.ErrorIs(t, err, runtime.ErrUnsupported)
	_, err = client.ListNetworks(ctx, types.Filter{})
	assert.ErrorIs(t, err, runtime.ErrUnsupported)
	_, err = client.ListComposeProjects(ctx)
	assert.ErrorIs(t, err, runtime.ErrUnsupported)
	assert.ErrorIs(t, client.DeleteVolume(ctx, "v"), runtime.ErrUnsupported)
	assert.ErrorIs(t, client.DeleteNetwork(ctx, "n"), runtime.ErrUnsupported)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError(nil, "list containers", TimeoutQuick))

	err := wrapError(status.Error(codes.NotFound, "no such container"), "inspect container", TimeoutQuick)
	assert.ErrorIs(t, err, cerrdefs.ErrNotFound)
	assert.Contains(t, err.Error(), "no such container")

	err = wrapError(status.Error(codes.DeadlineExceeded, "slow"), "list images", TimeoutQuick)
	assert.EqualError(t, err, "list images: operation timed out after 5s")

	err = wrapError(status.Error(codes.Unimplemented, "nope"), "get stats", TimeoutQuick)
	assert.ErrorIs(t, err, runtime.ErrUnsupported)

	boom := errors.New("boom")
	assert.ErrorIs(t, wrapError(boom, "delete image", TimeoutMedium), boom)
}

func TestContainerFilter(t *testing.T) {
	f := containerFilter(false, types.Filter{})
	require.NotNil(t, f.State)
	assert.Equal(t, runtimeapi.ContainerState_CONTAINER_RUNNING, f.State.State)
	assert.Nil(t, f.LabelSelector)

	f = containerFilter(true, types.LabelFilter("app", "web"))
	assert.Nil(t, f.State)
	assert.Equal(t, map[string]string{"app": "web"}, f.LabelSelector)
}

func TestMatchFilter(t *testing.T) {
	c := types.ContainerSummary{ID: "abc123", Name: "nginx-proxy", Labels: map[string]string{"app": "web"}}

	tests := []struct {
		filter   types.Filter
		expected bool
	}{
		{types.Filter{}, true},
		{types.ParseFilter("proxy"), true},
		{types.ParseFilter("redis"), false},
		{types.ParseFilter("id=abc"), true},
		{types.ParseFilter("id=123"), false},
		{types.LabelFilter("app", "web"), true},
		{types.LabelFilter("app", "db"), false},
		{types.ParseFilter("label=app"), true},
		{types.ParseFilter("app=web"), true},
	}

	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, matchFilter(c, tt.filter))
		})
	}
}

func TestParseContainer(t *testing.T) {
	c := parseContainer(&runtimeapi.Container{
		Id:        "abc",
		Metadata:  &runtimeapi.ContainerMetadata{Name: "web"},
		Image:     &runtimeapi.ImageSpec{Image: "nginx:latest"},
		ImageRef:  "sha256:123",
		State:     runtimeapi.ContainerState_CONTAINER_EXITED,
		CreatedAt: 1_700_000_000_000_000_000,
	})

	assert.Equal(t, "web", c.Name)
	assert.Equal(t, "nginx:latest", c.Image)
	assert.Equal(t, types.StatusExited, c.Status)
	assert.Equal(t, int64(1_700_000_000), c.Created.Unix())

	assert.Equal(t, types.None, parseContainer(&runtimeapi.Container{}).Name)
}

func TestParseDetails(t *testing.T) {
	details := parseDetails(&runtimeapi.ContainerStatusResponse{
		Status: &runtimeapi.ContainerStatus{
			Id:       "abc",
			Metadata: &runtimeapi.ContainerMetadata{Name: "web"},
			State:    runtimeapi.ContainerState_CONTAINER_RUNNING,
			Mounts:   []*runtimeapi.Mount{{ContainerPath: "/data", HostPath: "/srv/data", Readonly: true}},
		},
		Info: map[string]string{
			"info": `{"config":{"envs":[{"key":"B","value":"2"},{"key":"A","value":"1"}],"command":["/bin/sh"],"args":["-c","sleep 1"]}}`,
		},
	})

	assert.Equal(t, types.StatusRunning, details.Status)
	assert.Equal(t, []string{"bind /srv/data:/data (ro)"}, details.Mounts)
	assert.Equal(t, []string{"A=1", "B=2"}, details.Env)
	assert.Equal(t, []string{"/bin/sh"}, details.Entrypoint)
	assert.Equal(t, []string{"-c", "sleep 1"}, details.Command)
}

func TestInspectDocumentDecodesInfo(t *testing.T) {
	doc := inspectDocument(&runtimeapi.ContainerStatusResponse{
		Status: &runtimeapi.ContainerStatus{Id: "abc"},
		Info:   map[string]string{"info": `{"pid": 42}`, "raw": "not json"},
	})

	info := doc["info"].(map[string]any)
	assert.Equal(t, map[string]any{"pid": float64(42)}, info["info"])
	assert.Equal(t, "not json", info["raw"])
}

func TestParseImage(t *testing.T) {
	img := parseImage(&runtimeapi.Image{Id: "sha256:abc", RepoDigests: []string{"nginx@sha256:def"}})
	assert.Equal(t, "nginx@sha256:def", img.Name)

	img = parseImage(&runtimeapi.Image{Id: "sha256:abc"})
	assert.Equal(t, types.None, img.Name)
}
