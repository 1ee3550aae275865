// Package cli wires the command line, configuration, logging and the
// runtime backend to the dashboard.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pyaillet/doggy/internal/config"
	"github.com/pyaillet/doggy/internal/cri"
	"github.com/pyaillet/doggy/internal/docker"
	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/tui"
	"github.com/pyaillet/doggy/internal/types"
	"github.com/pyaillet/doggy/internal/ui"
)

// version is set at build time with -ldflags "-X".
var version = "dev"

type options struct {
	docker     string
	cri        string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "doggy",
		Short: "Terminal dashboard for container runtimes",
		Long: `doggy shows the containers, images, networks, volumes and compose
projects of a Docker engine or a CRI runtime, follows logs, tracks
resource usage and opens shells inside containers.`,
		Args:    cobra.NoArgs,
		Version: version,
		// SilenceUsage is set to true to prevent printing usage message on
		// runtime errors
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.docker, "docker", "", "Docker host, a socket path or a tcp:// or unix:// URL")
	cmd.Flags().StringVar(&opts.cri, "cri", "", "CRI runtime socket path")
	cmd.Flags().StringVar(&opts.configPath, "config", "", fmt.Sprintf("config file (default %s)", config.ConfigPath()))
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.MarkFlagsMutuallyExclusive("docker", "cri")

	cmd.SetVersionTemplate(`{{printf "doggy version %s\n" .Version}}`)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func run(ctx context.Context, opts *options) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errors.New("doggy must be run in an interactive terminal")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logFile, err := logging.InitFile(cfg.DataPath(), level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	conn, err := resolveConnection(opts, cfg)
	if err != nil {
		return err
	}
	client, err := newClient(conn)
	if err != nil {
		return err
	}
	defer client.Close()
	logging.Info("CLI", "doggy %s connected to %s", version, conn)

	env := ui.NewEnv(client, cfg)
	newDriver := func() tui.Driver {
		return tui.NewBubbleDriver(tui.Options{
			TickRate:  cfg.TickRate,
			FrameRate: cfg.FrameRate,
		})
	}
	app := ui.NewApp(env, newDriver, ui.NewContainersScreen(env, types.Filter{}))

	if err := app.Run(ctx); err != nil {
		logging.Error("CLI", err, "dashboard stopped")
		return err
	}
	return nil
}

// resolveConnection prefers flags, then the config file, then detection.
func resolveConnection(opts *options, cfg *config.Config) (runtime.ConnectionConfig, error) {
	dockerHost, criSocket := opts.docker, opts.cri
	if dockerHost == "" && criSocket == "" {
		dockerHost, criSocket = cfg.DockerHost, cfg.CRISocket
	}
	return runtime.Detect(dockerHost, criSocket)
}

func newClient(conn runtime.ConnectionConfig) (runtime.Client, error) {
	switch conn.Backend {
	case runtime.BackendCRI:
		return cri.NewClient(conn.Endpoint)
	default:
		return docker.NewClient(conn.Endpoint)
	}
}
