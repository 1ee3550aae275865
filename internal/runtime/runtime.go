// Package runtime defines the contract every container runtime backend
// implements, along with the stream types it hands out.
package runtime

import (
	"context"
	"errors"
	"io"

	"github.com/pyaillet/doggy/internal/types"
)

// ErrUnsupported is returned by backends for operations they cannot perform.
var ErrUnsupported = errors.New("operation not supported by this runtime")

// TermSize is a terminal size in cells.
type TermSize struct {
	Width  uint
	Height uint
}

// LogStream yields container log lines.
type LogStream interface {
	// Next returns the next line without its trailing newline, or io.EOF.
	Next() (string, error)
	Close() error
}

// StatStream yields resource usage samples.
type StatStream interface {
	Next() (types.StatSample, error)
	Close() error
}

// ExecSession is an interactive process running inside a container. Reads
// return the remote output, writes feed the remote input.
type ExecSession interface {
	io.ReadWriteCloser
	// CloseWrite signals the end of the remote input.
	CloseWrite() error
	Resize(ctx context.Context, size TermSize) error
}

// Client is the runtime backend the screens talk to. Exactly one
// implementation is active per process.
type Client interface {
	Info(ctx context.Context) (types.RuntimeInfo, error)
	ValidateFilter(text string) bool

	ListContainers(ctx context.Context, all bool, filter types.Filter) ([]types.ContainerSummary, error)
	GetContainer(ctx context.Context, id string) (string, error)
	GetContainerDetails(ctx context.Context, id string) (types.ContainerDetails, error)
	DeleteContainer(ctx context.Context, id string) error
	GetContainerLogStream(ctx context.Context, id string, sinceMinutes int, follow bool) (LogStream, error)
	GetContainerStatsStream(ctx context.Context, id string, follow bool) (StatStream, error)
	ExecInContainer(ctx context.Context, id string, cmd []string, size TermSize) (ExecSession, error)

	ListImages(ctx context.Context, filter types.Filter) ([]types.ImageSummary, error)
	GetImage(ctx context.Context, id string) (string, error)
	DeleteImage(ctx context.Context, id string) error

	ListNetworks(ctx context.Context, filter types.Filter) ([]types.NetworkSummary, error)
	GetNetwork(ctx context.Context, id string) (string, error)
	DeleteNetwork(ctx context.Context, id string) error

	ListVolumes(ctx context.Context, filter types.Filter) ([]types.VolumeSummary, error)
	GetVolume(ctx context.Context, id string) (string, error)
	DeleteVolume(ctx context.Context, id string) error

	ListComposeProjects(ctx context.Context) ([]types.Compose, error)
	GetComposeProject(ctx context.Context, project string) (types.ComposeDetails, error)

	Close() error
}
