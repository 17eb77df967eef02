package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jotunheim-mc/website/internal/lifecycle"
	"github.com/jotunheim-mc/website/internal/logging"
	"github.com/jotunheim-mc/website/internal/pages"
	"github.com/jotunheim-mc/website/internal/server"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes the server registers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		srv := server.New(server.Deps{
			Config:   cfg,
			Renderer: renderer,
			Logger:   logging.Nop(),
			Clock:    lifecycle.RealClock{},
		})
		routes, err := srv.Routes()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VIEW\tPATH")
		for _, v := range pages.All() {
			fmt.Fprintf(tw, "%s\t%s\n", v.Name, v.Path)
		}
		fmt.Fprintf(tw, "%s\t(any other path, 404)\n", pages.NotFound.Name)
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "METHOD\tPATTERN")
		for _, r := range routes {
			fmt.Fprintf(tw, "%s\t%s\n", r.Method, r.Pattern)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
