//go:build windows

package tui

// suspendProcess is a no-op: there is no job control on Windows.
func suspendProcess() error {
	return nil
}
