package runtime

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultDockerSocket is the engine socket probed when nothing is configured.
	DefaultDockerSocket = "/var/run/docker.sock"
	// DefaultCRISocket is the CRI socket probed after the engine socket.
	DefaultCRISocket = "/run/containerd/containerd.sock"
)

// Backend names a runtime implementation.
type Backend int

const (
	BackendDocker Backend = iota
	BackendCRI
)

func (b Backend) String() string {
	if b == BackendCRI {
		return "cri"
	}
	return "docker"
}

// ErrNoRuntime is returned when no runtime endpoint could be found.
var ErrNoRuntime = errors.New("no container runtime found, use --docker or --cri")

// ConnectionConfig selects a backend and its endpoint. An empty Endpoint for
// the Docker backend means "from the environment".
type ConnectionConfig struct {
	Backend  Backend
	Endpoint string
}

func (c ConnectionConfig) String() string {
	if c.Endpoint == "" {
		return c.Backend.String() + " (environment)"
	}
	return c.Backend.String() + " " + c.Endpoint
}

// HostURL turns a socket path into a unix URL and leaves URLs untouched.
func HostURL(endpoint string) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "unix://" + endpoint
}

// Detect resolves the connection from explicit flags first, then the
// environment, then well-known sockets.
func Detect(dockerFlag, criFlag string) (ConnectionConfig, error) {
	return detect(dockerFlag, criFlag, os.Getenv, fileExists)
}

func detect(dockerFlag, criFlag string, getenv func(string) string, exists func(string) bool) (ConnectionConfig, error) {
	switch {
	case dockerFlag != "" && criFlag != "":
		return ConnectionConfig{}, fmt.Errorf("you should specify --docker or --cri but not both")
	case dockerFlag != "":
		return ConnectionConfig{Backend: BackendDocker, Endpoint: HostURL(dockerFlag)}, nil
	case criFlag != "":
		return ConnectionConfig{Backend: BackendCRI, Endpoint: criFlag}, nil
	}

	if getenv("DOCKER_HOST") != "" {
		return ConnectionConfig{Backend: BackendDocker}, nil
	}
	if exists(DefaultDockerSocket) {
		return ConnectionConfig{Backend: BackendDocker, Endpoint: HostURL(DefaultDockerSocket)}, nil
	}
	if exists(DefaultCRISocket) {
		return ConnectionConfig{Backend: BackendCRI, Endpoint: DefaultCRISocket}, nil
	}
	return ConnectionConfig{}, ErrNoRuntime
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
