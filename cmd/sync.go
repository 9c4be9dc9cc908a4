package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"talkie/internal/progress"
	"talkie/internal/rag"
)

var syncCmd = &cobra.Command{
	Use:   "sync [directory]",
	Short: "Incrementally index a directory",
	Long: `Walks the directory, detects files that are new, changed, or removed
since the last run, and reconciles the vector index to match. Unchanged
files cost nothing: no content is read and no embedding calls are made.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// reporterFunc adapts a progress.Reporter to the engine's callback,
// starting the reporter once the total is known.
func reporterFunc(r progress.Reporter) rag.ProgressFunc {
	started := false
	return func(done, total int, path string) {
		if !started {
			started = true
			r.Start(total)
		}
		r.Update(done, path)
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reporter := progress.NewReporter()
	engine, err := newEngine(cfg, reporterFunc(reporter))
	if err != nil {
		return err
	}

	report, err := engine.Sync(context.Background(), args[0])
	reporter.Finish()
	if err != nil {
		return err
	}

	fmt.Print(report.Summary())
	if !report.Clean() {
		fmt.Fprintf(os.Stderr, "%d file(s) failed and will be retried on the next sync\n", report.Failed)
	}
	return nil
}
