package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jotunheim",
	Short: "Website for the Jotunheim MC Minecraft community",
	Long: `Serves the Jotunheim MC community website: the home, rules, about,
contact, staff and map pages, live page widgets over a websocket, and
contact form delivery to Discord. The site can also be exported as static
files.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "jotunheim.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
