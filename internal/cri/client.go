// Package cri implements the runtime client on top of the Kubernetes
// Container Runtime Interface, talking gRPC to containerd or CRI-O.
package cri

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	runtimeapi "k8s.io/cri-api/pkg/apis/runtime/v1"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/types"
)

const (
	TimeoutQuick  = 5 * time.Second
	TimeoutMedium = 15 * time.Second
)

// Client implements runtime.Client for CRI runtimes. Volumes, networks and
// compose projects have no CRI equivalent.
type Client struct {
	conn     *grpc.ClientConn
	runtime  runtimeapi.RuntimeServiceClient
	images   runtimeapi.ImageServiceClient
	endpoint string
}

var _ runtime.Client = (*Client)(nil)

// NewClient dials the CRI socket at path. The connection is established lazily.
func NewClient(path string) (*Client, error) {
	if path == "" {
		path = runtime.DefaultCRISocket
	}
	target := runtime.HostURL(path)

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create cri client: %w", err)
	}

	return &Client{
		conn:     conn,
		runtime:  runtimeapi.NewRuntimeServiceClient(conn),
		images:   runtimeapi.NewImageServiceClient(conn),
		endpoint: target,
	}, nil
}

// Close closes the gRPC connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Info reports the runtime name and version.
func (c *Client) Info(ctx context.Context) (types.RuntimeInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, TimeoutQuick)
	defer cancel()

	info := types.RuntimeInfo{Name: "cri", Endpoint: c.endpoint}
	version, err := c.runtime.Version(ctx, &runtimeapi.VersionRequest{})
	if err != nil {
		return info, wrapError(err, "get runtime version", TimeoutQuick)
	}
	info.Name = version.GetRuntimeName()
	info.Version = version.GetRuntimeVersion()
	return info, nil
}

// ValidateFilter accepts anything; unknown keys are matched against labels.
func (c *Client) ValidateFilter(string) bool {
	return true
}

func (c *Client) ListVolumes(context.Context, types.Filter) ([]types.VolumeSummary, error) {
	return nil, runtime.ErrUnsupported
}

func (c *Client) GetVolume(context.Context, string) (string, error) {
	return "", runtime.ErrUnsupported
}

func (c *Client) DeleteVolume(context.Context, string) error {
	return runtime.ErrUnsupported
}

func (c *Client) ListNetworks(context.Context, types.Filter) ([]types.NetworkSummary, error) {
	return nil, runtime.ErrUnsupported
}

func (c *Client) GetNetwork(context.Context, string) (string, error) {
	return "", runtime.ErrUnsupported
}

func (c *Client) DeleteNetwork(context.Context, string) error {
	return runtime.ErrUnsupported
}

func (c *Client) ListComposeProjects(context.Context) ([]types.Compose, error) {
	return nil, runtime.ErrUnsupported
}

func (c *Client) GetComposeProject(context.Context, string) (types.ComposeDetails, error) {
	return types.ComposeDetails{}, runtime.ErrUnsupported
}

// wrapError turns gRPC status codes into the error classes used elsewhere.
func wrapError(err error, op string, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	logging.Debug("CRI", "%s failed: %v", op, err)
	switch status.Code(err) {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%s: operation timed out after %s", op, timeout)
	case codes.NotFound:
		return fmt.Errorf("%s: %w: %s", op, cerrdefs.ErrNotFound, status.Convert(err).Message())
	case codes.Unimplemented:
		return fmt.Errorf("%s: %w", op, runtime.ErrUnsupported)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: operation timed out after %s", op, timeout)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func indentJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format inspect result: %w", err)
	}
	return string(out), nil
}

func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
