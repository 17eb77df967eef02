package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotunheim-mc/website/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and prune the contact and newsletter audit trail",
	Long: `Reads the SQLite audit trail the server writes for contact deliveries and
newsletter signups. Message bodies are never stored.`,
}

var (
	auditAction string
	auditSource string
	auditSince  time.Duration
	auditLimit  int
	auditJSON   bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openAudit(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		filter := audit.QueryFilter{
			Action: audit.Action(auditAction),
			Source: audit.Source(auditSource),
			Limit:  auditLimit,
		}
		if auditSince > 0 {
			since := time.Now().Add(-auditSince)
			filter.Since = &since
		}

		entries, err := store.Query(cmd.Context(), filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if auditJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No audit entries.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tACTION\tSOURCE\tSTATUS\tID\tSUMMARY")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
				e.Timestamp.Format(time.DateTime), e.Action, e.Source, e.Status, e.ID, e.Summary)
		}
		return tw.Flush()
	},
}

var auditShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one audit entry as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openAudit(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		entry, err := store.GetByID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("audit entry %s: %w", args[0], err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	},
}

var auditOlderThan time.Duration

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit entries older than a duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if auditOlderThan <= 0 {
			return errors.New("--older-than must be positive")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openAudit(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-auditOlderThan))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d audit entries\n", n)
		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditAction, "action", "", "filter by action (contact_delivered, contact_failed, newsletter_intent)")
	auditListCmd.Flags().StringVar(&auditSource, "source", "", "filter by source (form, live)")
	auditListCmd.Flags().DurationVar(&auditSince, "since", 0, "only entries newer than this, e.g. 24h")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 50, "maximum entries to print (0 for all)")
	auditListCmd.Flags().BoolVar(&auditJSON, "json", false, "print JSON")

	auditPruneCmd.Flags().DurationVar(&auditOlderThan, "older-than", 90*24*time.Hour, "delete entries older than this")

	auditCmd.AddCommand(auditListCmd, auditShowCmd, auditPruneCmd)
	rootCmd.AddCommand(auditCmd)
}
