package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/lifecycle"
	"github.com/jotunheim-mc/website/internal/metrics"
	"github.com/jotunheim-mc/website/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the website server",
	Long:  `Starts the HTTP server for the website, including live page sessions, contact form delivery and the metrics endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveListen != "" {
			cfg.Listen = serveListen
		}
		logger := newLogger(cfg)

		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		var auditLog contact.AuditLogger
		if cfg.Audit.Enabled {
			database, store, err := openAudit(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			auditLog = store
			logger.Debug().Str("path", database.Path()).Msg("audit trail enabled")

			if cfg.Audit.Retention > 0 {
				n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-cfg.Audit.Retention))
				if err != nil {
					return err
				}
				logger.Info().Int64("deleted", n).Dur("retention", cfg.Audit.Retention).Msg("pruned audit trail")
			}
		}

		var m *metrics.Metrics
		if cfg.Metrics.Enabled {
			m = metrics.New()
		}

		if cfg.Contact.WebhookURL == "" {
			logger.Warn().Msg("contact.webhook_url is not set; contact submissions will fail")
		}

		srv := server.New(server.Deps{
			Config:    cfg,
			Renderer:  renderer,
			Deliverer: contact.NewClient(cfg.Contact.WebhookURL, cfg.Contact.Timeout),
			Audit:     auditLog,
			Metrics:   m,
			Logger:    logger,
			Clock:     lifecycle.RealClock{},
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("shutdown")
			}
		}()

		logger.Info().Str("version", Version).Msg("starting jotunheim website")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
