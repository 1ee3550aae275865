package docker

import (
	"context"
	"fmt"

	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/runtime"
)

// execSession adapts a hijacked exec connection to runtime.ExecSession.
type execSession struct {
	cli  *client.Client
	id   string
	conn client.HijackedResponse
}

// ExecInContainer starts cmd with a TTY sized to size and attaches to it.
func (c *Client) ExecInContainer(ctx context.Context, id string, cmd []string, size runtime.TermSize) (runtime.ExecSession, error) {
	setupCtx, cancel := c.WithCustomTimeout(ctx, TimeoutMedium)
	defer cancel()

	consoleSize := client.ConsoleSize{Height: size.Height, Width: size.Width}
	created, err := c.cli.ExecCreate(setupCtx, id, client.ExecCreateOptions{
		TTY:          true,
		ConsoleSize:  consoleSize,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          cmd,
	})
	if err != nil {
		return nil, wrapError(err, "create exec", TimeoutMedium)
	}

	// The hijacked connection outlives the setup timeout.
	attached, err := c.cli.ExecAttach(ctx, created.ID, client.ExecAttachOptions{
		TTY:         true,
		ConsoleSize: consoleSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach to exec: %w", err)
	}

	logging.Debug("Docker", "exec %s started in %s: %v", created.ID, id, cmd)
	return &execSession{cli: c.cli, id: created.ID, conn: attached.HijackedResponse}, nil
}

func (s *execSession) Read(p []byte) (int, error) {
	return s.conn.Reader.Read(p)
}

func (s *execSession) Write(p []byte) (int, error) {
	return s.conn.Conn.Write(p)
}

func (s *execSession) CloseWrite() error {
	return s.conn.CloseWrite()
}

func (s *execSession) Close() error {
	s.conn.Close()
	return nil
}

func (s *execSession) Resize(ctx context.Context, size runtime.TermSize) error {
	_, err := s.cli.ExecResize(ctx, s.id, client.ExecResizeOptions{Height: size.Height, Width: size.Width})
	return wrapError(err, "resize exec", TimeoutQuick)
}
