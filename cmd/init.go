package cmd

import (
	"github.com/spf13/cobra"

	"talkie/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a talkie config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
