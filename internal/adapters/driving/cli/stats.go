package cli

import (
	"errors"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tiller-tolbus/packrat/internal/core/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chunking progress per file",
	Long:  `Show the number of chunks and the line coverage percentage for every file that has at least one saved chunk.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if chunkStore == nil || progressService == nil {
		return errors.New("chunk store not configured")
	}

	chunks := chunkStore.Chunks()
	if len(chunks) == 0 {
		cmd.Println("No chunks saved.")
		return nil
	}

	perFile := make(map[string][]domain.Chunk)
	for _, chunk := range chunks {
		perFile[chunk.FilePath] = append(perFile[chunk.FilePath], chunk)
	}

	files := make([]string, 0, len(perFile))
	for path := range perFile {
		files = append(files, path)
	}
	sort.Strings(files)

	cmd.Printf("Chunk store: %s\n\n", chunkStore.Path())
	for _, path := range files {
		coverage, err := progressService.CoverageForFile(statsFilePath(path))
		if err != nil {
			// The source file may have moved since its chunks were
			// saved; report the count without coverage.
			cmd.Printf("%-40s  %3d chunk(s)  coverage unavailable\n", path, len(perFile[path]))
			continue
		}
		cmd.Printf("%-40s  %3d chunk(s)  %5.1f%% covered\n", path, len(perFile[path]), coverage)
	}
	cmd.Printf("\n%d chunk(s) across %d file(s)\n", len(chunks), len(files))

	return nil
}

// statsRootDir resolves stored root-relative paths back to real files.
// Wired by main alongside the services.
var statsRootDir string

// SetRootDir sets the root directory used to resolve stored paths.
func SetRootDir(dir string) {
	statsRootDir = dir
}

func statsFilePath(stored string) string {
	if statsRootDir == "" {
		return stored
	}
	return filepath.Join(statsRootDir, filepath.FromSlash(stored))
}
