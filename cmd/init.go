package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jotunheim-mc/website/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the listen address, base URL, contact webhook and chat settings, then writes jotunheim.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
