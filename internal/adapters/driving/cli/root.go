// Package cli implements the packrat command line interface using
// cobra. Running packrat with no subcommand launches the interactive
// TUI; subcommands expose chunk listing and progress reporting for
// scripting.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driving"
	"github.com/tiller-tolbus/packrat/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the non-interactive commands. Wired by main before
// Execute is called.
var (
	chunkStore      driven.ChunkStore
	progressService driving.ProgressService
)

var rootCmd = &cobra.Command{
	Use:   "packrat",
	Short: "Carve text files into labelled, reviewable chunks",
	Long: `Packrat is a terminal tool for splitting large text files into
labelled chunks suitable for retrieval corpora and model context
windows.

Run with no arguments to open the interactive TUI. Use the list and
stats subcommands to inspect saved chunks from scripts.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(debugFlag)
	},
	RunE: runTUI,
}

var debugFlag bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices wires the ports used by the list and stats commands.
func SetServices(store driven.ChunkStore, progress driving.ProgressService) {
	chunkStore = store
	progressService = progress
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
