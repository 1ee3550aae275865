package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	noEnv := func(string) string { return "" }
	withHost := func(k string) string {
		if k == "DOCKER_HOST" {
			return "tcp://10.0.0.1:2376"
		}
		return ""
	}
	none := func(string) bool { return false }
	only := func(p string) func(string) bool {
		return func(s string) bool { return s == p }
	}

	tests := []struct {
		name     string
		docker   string
		cri      string
		getenv   func(string) string
		exists   func(string) bool
		expected ConnectionConfig
		wantErr  bool
	}{
		{"both flags", "/a.sock", "/b.sock", noEnv, none, ConnectionConfig{}, true},
		{"docker socket flag", "/tmp/docker.sock", "", noEnv, none, ConnectionConfig{BackendDocker, "unix:///tmp/docker.sock"}, false},
		{"docker url flag", "tcp://host:2375", "", noEnv, none, ConnectionConfig{BackendDocker, "tcp://host:2375"}, false},
		{"cri flag", "", "/run/crio/crio.sock", noEnv, none, ConnectionConfig{BackendCRI, "/run/crio/crio.sock"}, false},
		{"docker host env", "", "", withHost, none, ConnectionConfig{BackendDocker, ""}, false},
		{"default docker socket", "", "", noEnv, only(DefaultDockerSocket), ConnectionConfig{BackendDocker, "unix://" + DefaultDockerSocket}, false},
		{"default cri socket", "", "", noEnv, only(DefaultCRISocket), ConnectionConfig{BackendCRI, DefaultCRISocket}, false},
		{"nothing", "", "", noEnv, none, ConnectionConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := detect(tt.docker, tt.cri, tt.getenv, tt.exists)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestConnectionConfigString(t *testing.T) {
	assert.Equal(t, "docker (environment)", ConnectionConfig{Backend: BackendDocker}.String())
	assert.Equal(t, "cri /run/x.sock", ConnectionConfig{Backend: BackendCRI, Endpoint: "/run/x.sock"}.String())
}
