package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driving"
	"github.com/tiller-tolbus/packrat/internal/logger"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	ChunkingService driving.ChunkingService
	ProgressService driving.ProgressService
	Watcher         driven.FileWatcher
	RootDir         string
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

// debugLogPath returns where TUI debug output goes, beside the config
// file in ~/.packrat.
func debugLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "packrat-debug.log"
	}
	return filepath.Join(home, ".packrat", "debug.log")
}

func runTUI(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("packrat needs a terminal; use the list and stats subcommands in scripts")
	}

	// Debug lines must not write to the terminal once the alternate
	// screen is up. Redirect them to a log file next to the config.
	if logger.IsVerbose() {
		logFile, err := os.OpenFile(debugLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer logFile.Close()
		logger.SetOutput(logFile)
	}

	// Recover with a stack trace so TUI panics are debuggable after
	// the alternate screen is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{}
	rootDir := "."
	if tuiConfig != nil {
		ports.Chunking = tuiConfig.ChunkingService
		ports.Progress = tuiConfig.ProgressService
		ports.Watcher = tuiConfig.Watcher
		if tuiConfig.RootDir != "" {
			rootDir = tuiConfig.RootDir
		}
	}

	app, err := tui.NewApp(ports, rootDir)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
