package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiller-tolbus/packrat/internal/core/domain"
)

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List saved chunks",
	Long: `List all saved chunks, or only the chunks for the given file.

The file argument is the root-relative path recorded at save time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

// listVerbose controls whether chunk content is printed.
var listVerbose bool

func init() {
	listCmd.Flags().BoolVarP(&listVerbose, "verbose", "v", false, "Include chunk content")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	var chunks []domain.Chunk
	if len(args) == 1 {
		chunks = chunkStore.ChunksForFile(args[0])
	} else {
		chunks = chunkStore.Chunks()
	}

	if len(chunks) == 0 {
		cmd.Println("No chunks saved.")
		return nil
	}

	for _, chunk := range chunks {
		printChunk(cmd, chunk)
	}
	cmd.Printf("\n%d chunk(s)\n", len(chunks))

	return nil
}

func printChunk(cmd *cobra.Command, chunk domain.Chunk) {
	cmd.Printf("%s  %s:%d-%d", chunk.ID, chunk.FilePath, chunk.StartLine, chunk.EndLine)
	if chunk.Edited {
		cmd.Print("  (edited)")
	}
	if len(chunk.Labels) > 0 {
		cmd.Printf("  [%s]", strings.Join(chunk.Labels, ", "))
	}
	cmd.Println()

	if listVerbose {
		for _, line := range strings.Split(chunk.Content, "\n") {
			cmd.Printf("    %s\n", line)
		}
	}
}
