package ui

import (
	"github.com/atotto/clipboard"

	"github.com/pyaillet/doggy/internal/config"
	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/types"
)

// Env carries the collaborators shared by every screen. It is built once at
// startup and handed to each screen constructor.
type Env struct {
	Client runtime.Client
	Config *config.Config
	Info   types.RuntimeInfo

	// Clipboard copies text for the yank action.
	Clipboard func(text string) error
}

// NewEnv creates an Env using the system clipboard.
func NewEnv(client runtime.Client, cfg *config.Config) *Env {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Env{
		Client:    client,
		Config:    cfg,
		Clipboard: clipboard.WriteAll,
	}
}
