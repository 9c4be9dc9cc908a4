package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "talkie/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing directory sync and similarity query tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := newEngine(cfg, nil)
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		fmt.Fprintln(os.Stderr, "talkie MCP server started on stdio")

		srv := mcpserver.NewServer(engine)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
