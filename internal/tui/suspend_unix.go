//go:build !windows

package tui

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// suspendProcess stops the process like a shell job and returns once it is
// continued.
func suspendProcess() error {
	cont := make(chan os.Signal, 1)
	signal.Notify(cont, unix.SIGCONT)
	defer signal.Stop(cont)

	if err := unix.Kill(unix.Getpid(), unix.SIGTSTP); err != nil {
		return err
	}
	<-cont
	return nil
}
