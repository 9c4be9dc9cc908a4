package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"talkie/internal/progress"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex [directory]",
	Short: "Rebuild a directory's index from scratch",
	Long: `Clears the vector index collection and the fingerprint store for the
directory, then re-embeds every eligible file. Use this after changing
the embedding model or to recover from a corrupted index.`,
	Args: cobra.ExactArgs(1),
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reporter := progress.NewReporter()
	engine, err := newEngine(cfg, reporterFunc(reporter))
	if err != nil {
		return err
	}

	report, err := engine.Reindex(context.Background(), args[0])
	reporter.Finish()
	if err != nil {
		return err
	}

	fmt.Print(report.Summary())
	return nil
}
