package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "talkie",
	Short: "Semantic directory indexing and retrieval",
	Long: `Talkie maintains a semantic index of a directory's files and answers
nearest-neighbor text queries against it, so chat prompts can be
augmented with relevant source and document content. Syncs are
incremental: only new, changed, and removed files touch the embedding
provider and the vector index.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Credentials may live in a .env file next to the caller.
		_ = godotenv.Load()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".talkie.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
