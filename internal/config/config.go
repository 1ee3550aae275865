package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	appName = "doggy"

	// EnvConfig overrides the config file location.
	EnvConfig = "DOGGY_CONFIG"
	// EnvData overrides the data directory holding the log file.
	EnvData = "DOGGY_DATA"
	// EnvLogLevel overrides the configured log level.
	EnvLogLevel = "DOGGY_LOGLEVEL"
)

// Config holds the application configuration
type Config struct {
	TickRate        float64       `yaml:"tick_rate"`
	FrameRate       float64       `yaml:"frame_rate"`
	DefaultShell    string        `yaml:"default_shell"`
	LogSinceMinutes int           `yaml:"log_since_minutes"`
	ErrorTimeout    time.Duration `yaml:"error_timeout"`
	LogLevel        string        `yaml:"log_level"`
	DataDir         string        `yaml:"data_dir"`
	DockerHost      string        `yaml:"docker_host"`
	CRISocket       string        `yaml:"cri_socket"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TickRate:        4.0,
		FrameRate:       30.0,
		DefaultShell:    "/bin/bash",
		LogSinceMinutes: 15,
		ErrorTimeout:    5 * time.Second,
		LogLevel:        "info",
	}
}

// configPath returns the path to the config file
func configPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return expandPath(p)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, appName, "config.yaml")
}

// Load reads the configuration from path, or from the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = configPath()
	}
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.applyEnv()
	cfg.normalize()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.LogLevel = lvl
	}
}

// Ensure reasonable defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.TickRate <= 0 {
		c.TickRate = def.TickRate
	}
	if c.FrameRate <= 0 {
		c.FrameRate = def.FrameRate
	}
	if c.DefaultShell == "" {
		c.DefaultShell = def.DefaultShell
	}
	if c.LogSinceMinutes <= 0 {
		c.LogSinceMinutes = def.LogSinceMinutes
	}
	if c.ErrorTimeout <= 0 {
		c.ErrorTimeout = def.ErrorTimeout
	}
}

// TickInterval is the data refresh period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}

// FrameInterval is the render period.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.FrameRate)
}

// ErrorTicks is the number of ticks an error toast stays visible.
func (c *Config) ErrorTicks() int {
	n := int(c.ErrorTimeout.Seconds() * c.TickRate)
	if n < 1 {
		return 1
	}
	return n
}

// DataPath returns the directory holding the log file: $DOGGY_DATA, then the
// configured data_dir, then the XDG data home.
func (c *Config) DataPath() string {
	if d := os.Getenv(EnvData); d != "" {
		return expandPath(d)
	}
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// ConfigPath returns the path where the config file should be located
func ConfigPath() string {
	return configPath()
}
