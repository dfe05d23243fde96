// Package cli provides styled terminal output for the relgen command line:
// colored labels, status badges, and panels, with automatic fallback to plain
// text for pipes and CI.
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// OutputMode determines how output is formatted.
type OutputMode int

const (
	// ModeTTY enables colored output for interactive terminals.
	ModeTTY OutputMode = iota
	// ModePlain outputs plain text (pipes, CI).
	ModePlain
)

// Config holds CLI output configuration.
type Config struct {
	Mode   OutputMode
	Writer io.Writer
}

// DetectConfig returns the auto-detected configuration:
// TTY mode when stdout is a terminal, plain otherwise. NO_COLOR
// (https://no-color.org/) and TERM=dumb force plain mode.
func DetectConfig() *Config {
	mode := ModePlain
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		mode = ModeTTY
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		mode = ModePlain
	}
	return &Config{Mode: mode, Writer: os.Stdout}
}

// IsTTY reports whether output goes to an interactive terminal.
func (c *Config) IsTTY() bool {
	return c.Mode == ModeTTY
}

var defaultCfg *Config

// Default returns the global output configuration, detecting it on first use.
func Default() *Config {
	if defaultCfg == nil {
		defaultCfg = DetectConfig()
	}
	return defaultCfg
}

// SetDefault replaces the global output configuration. Used by the --plain
// flag and by tests.
func SetDefault(cfg *Config) {
	defaultCfg = cfg
}

// EnableColors reports whether styled output should be used.
func EnableColors() bool {
	return Default().IsTTY()
}
