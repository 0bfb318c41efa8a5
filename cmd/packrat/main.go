// Command packrat is an interactive terminal tool for carving large
// text files into labelled, reviewable chunks.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/tiller-tolbus/packrat/internal/adapters/driven/config/file"
	"github.com/tiller-tolbus/packrat/internal/adapters/driven/fswatch"
	"github.com/tiller-tolbus/packrat/internal/adapters/driven/storage/csvfile"
	"github.com/tiller-tolbus/packrat/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/cli"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driven"
	"github.com/tiller-tolbus/packrat/internal/core/services"
	"github.com/tiller-tolbus/packrat/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultMaxTokens is the advisory per-chunk token budget when the
// config file does not set one.
const defaultMaxTokens = 8192

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Adapters are wired before cobra parses flags, so pick up --debug
	// here for the wiring phase too.
	for _, arg := range os.Args[1:] {
		if arg == "--debug" {
			logger.SetVerbose(true)
			break
		}
	}

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	rootDir := cfg.GetString(driven.KeyRootDir)
	if rootDir == "" {
		rootDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
	}
	rootDir, err = filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolving root directory: %w", err)
	}

	chunkFile := cfg.GetString(driven.KeyChunkFile)
	if chunkFile == "" {
		chunkFile = filepath.Join(rootDir, "chunks.csv")
	}

	maxTokens := cfg.GetInt(driven.KeyMaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	logger.Debug("root %s, store %s, budget %d tokens", rootDir, chunkFile, maxTokens)

	store, err := csvfile.OpenOrCreate(chunkFile)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}

	tokenizer, err := tiktoken.NewTokenizer(cfg.GetString(driven.KeyTokenEncoding))
	if err != nil {
		return fmt.Errorf("initialising tokenizer: %w", err)
	}

	chunking := services.NewChunkingService(store, tokenizer, rootDir, maxTokens)
	progress := services.NewProgressService(store, rootDir)

	var watcher driven.FileWatcher
	if cfg.GetBool(driven.KeyWatchFiles) {
		w, err := fswatch.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting file watcher: %w", err)
		}
		defer w.Close()
		watcher = w
	}

	cli.SetVersion(version)
	cli.SetServices(store, progress)
	cli.SetRootDir(rootDir)
	cli.SetTUIConfig(&cli.TUIConfig{
		ChunkingService: chunking,
		ProgressService: progress,
		Watcher:         watcher,
		RootDir:         rootDir,
	})

	return cli.Execute()
}
