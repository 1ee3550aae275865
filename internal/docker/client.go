// Package docker implements the runtime client on top of the Docker Engine API.
package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/types"
)

// Operation timeout constants
const (
	TimeoutQuick  = 5 * time.Second  // List, inspect operations
	TimeoutMedium = 15 * time.Second // Delete, exec setup operations
)

// Client wraps the Docker client and implements runtime.Client.
type Client struct {
	cli            *client.Client
	endpoint       string
	defaultTimeout time.Duration
}

var _ runtime.Client = (*Client)(nil)

// NewClient connects to host, or to the endpoint described by the DOCKER_*
// environment variables when host is empty.
func NewClient(host string) (*Client, error) {
	opts := []client.Opt{
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Client{
		cli:            cli,
		endpoint:       cli.DaemonHost(),
		defaultTimeout: 10 * time.Second,
	}, nil
}

// Close closes the underlying Docker client
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}

// WithTimeout derives a context bounded by the default timeout.
func (c *Client) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.defaultTimeout)
}

// WithCustomTimeout derives a context bounded by timeout.
func (c *Client) WithCustomTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// Info reports the engine version and the endpoint in use.
func (c *Client) Info(ctx context.Context) (types.RuntimeInfo, error) {
	ctx, cancel := c.WithCustomTimeout(ctx, TimeoutQuick)
	defer cancel()

	info := types.RuntimeInfo{Name: "docker", Endpoint: c.endpoint}
	version, err := c.cli.ServerVersion(ctx, client.ServerVersionOptions{})
	if err != nil {
		return info, wrapError(err, "get server version", TimeoutQuick)
	}
	info.Version = version.Version
	if version.Platform.Name != "" && !strings.HasPrefix(version.Platform.Name, "Docker Engine") {
		info.Name = version.Platform.Name
	}
	return info, nil
}

func wrapError(err error, op string, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	logging.Debug("Docker", "%s failed: %v", op, err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: operation timed out after %s", op, timeout)
	case cerrdefs.IsNotFound(err):
		return fmt.Errorf("%s: not found: %w", op, err)
	case cerrdefs.IsConflict(err):
		return fmt.Errorf("%s: resource is in use: %w", op, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
