package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"talkie/internal/rag"
)

var queryCmd = &cobra.Command{
	Use:   "query [directory] [text]",
	Short: "Find indexed files similar to a query",
	Long:  `Embeds the query text and returns the most similar indexed files, best match first.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntP("limit", "k", 5, "maximum number of results")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	queryCmd.Flags().Bool("content", false, "print full file content for each result")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	withContent, _ := cmd.Flags().GetBool("content")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg, nil)
	if err != nil {
		return err
	}

	results, err := engine.Query(context.Background(), args[0], args[1], limit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found. Run `talkie sync` first to index the directory.")
		return nil
	}

	if jsonOutput {
		return printQueryResultsJSON(results)
	}
	printQueryResults(results, withContent)
	return nil
}

type queryResultJSON struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	Path       string  `json:"path"`
	Content    string  `json:"content"`
}

func printQueryResultsJSON(results []rag.Result) error {
	out := make([]queryResultJSON, 0, len(results))
	for i, r := range results {
		out = append(out, queryResultJSON{
			Rank:       i + 1,
			Similarity: float64(r.Similarity),
			Path:       r.Path,
			Content:    r.Content,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printQueryResults(results []rag.Result, withContent bool) {
	fmt.Printf("Found %d result(s):\n\n", len(results))
	for i, r := range results {
		fmt.Printf("  %d. [%.1f%%] %s\n", i+1, r.Similarity*100, r.Path)
		if withContent {
			fmt.Println()
			fmt.Println(r.Content)
			fmt.Println()
		} else {
			fmt.Printf("     %s\n", truncate(r.Content, 120))
		}
	}
}

// truncate shortens s to at most max bytes, backing up to a rune
// boundary so the cut never produces invalid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
