package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotunheim-mc/website/internal/export"
	"github.com/jotunheim-mc/website/internal/progress"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the site as static files",
	Long: `Renders every page, the not-found page and all static assets into a
directory. Forms in the exported pages post to the configured base_url.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		res, err := export.Run(ctx, export.Options{
			OutDir:   exportOut,
			Config:   cfg,
			Renderer: renderer,
			Reporter: progress.NewReporter("Exporting site"),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d pages and %d assets to %s in %s\n",
			res.Pages, res.Assets, exportOut, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "public", "output directory")
	rootCmd.AddCommand(exportCmd)
}
