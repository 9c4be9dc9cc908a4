package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [directory]",
	Short: "List the files tracked in a directory's index",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg, nil)
	if err != nil {
		return err
	}

	files, err := engine.List(args[0])
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println("No files indexed. Run `talkie sync` first.")
		return nil
	}

	fmt.Printf("%d file(s) indexed:\n", len(files))
	for _, f := range files {
		modified := time.Unix(0, int64(f.ModTime*1e9)).Format(time.RFC3339)
		fmt.Printf("  %-50s %8d bytes  %s\n", f.Path, f.Size, modified)
	}
	return nil
}
