package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
tick_rate: 2
frame_rate: -1
default_shell: /bin/sh
error_timeout: 3s
data_dir: ~/doggy-data
docker_host: tcp://127.0.0.1:2375
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, 2.0, cfg.TickRate)
	assert.Equal(t, 30.0, cfg.FrameRate)
	assert.Equal(t, "/bin/sh", cfg.DefaultShell)
	assert.Equal(t, 15, cfg.LogSinceMinutes)
	assert.Equal(t, 3*time.Second, cfg.ErrorTimeout)
	assert.Equal(t, filepath.Join(home, "doggy-data"), cfg.DataDir)
	assert.Equal(t, "tcp://127.0.0.1:2375", cfg.DockerHost)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	dataDir := t.TempDir()
	t.Setenv(EnvData, dataDir)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, dataDir, cfg.DataPath())
}

func TestDataPathFallsBackToConfig(t *testing.T) {
	t.Setenv(EnvData, "")
	cfg := DefaultConfig()
	cfg.DataDir = "/var/lib/doggy"
	assert.Equal(t, "/var/lib/doggy", cfg.DataPath())

	cfg.DataDir = ""
	assert.Equal(t, "doggy", filepath.Base(cfg.DataPath()))
}

func TestIntervals(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, 20, cfg.ErrorTicks())

	cfg.ErrorTimeout = time.Millisecond
	assert.Equal(t, 1, cfg.ErrorTicks())
}

func TestConfigPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", ConfigPath())
}
