//go:build !windows

package ui

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/x/term"
	"golang.org/x/sys/unix"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/runtime"
)

// watchResize forwards terminal size changes to the session until the
// returned function is called.
func watchResize(ctx context.Context, fd uintptr, session runtime.ExecSession) func() {
	ctx, cancel := context.WithCancel(ctx)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGWINCH)

	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigs:
				w, h, err := term.GetSize(fd)
				if err != nil {
					continue
				}
				if err := session.Resize(ctx, runtime.TermSize{Width: uint(w), Height: uint(h)}); err != nil {
					logging.Debug("Exec", "resize failed: %v", err)
				}
			}
		}
	}()
	return cancel
}
