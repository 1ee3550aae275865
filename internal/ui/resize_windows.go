//go:build windows

package ui

import (
	"context"

	"github.com/pyaillet/doggy/internal/runtime"
)

func watchResize(_ context.Context, _ uintptr, _ runtime.ExecSession) func() {
	return func() {}
}
