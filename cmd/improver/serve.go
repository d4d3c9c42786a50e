package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mlorentedev/improver/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Port = port
			}

			a, provider, err := buildAdapter(cfg, opts.useMock)
			if err != nil {
				return err
			}

			handler := server.SetupMux(server.Options{
				Adapter:       a,
				Provider:      provider,
				Version:       version,
				Timeout:       cfg.Timeout(),
				MaxCodeLength: cfg.MaxCodeLength,
				RateLimit:     cfg.RateLimit,
				RateWindow:    cfg.RateWindow(),
				AccessKey:     cfg.AccessKey,
			})

			if cfg.AccessKey != "" {
				logger.Info().Msg("auth: access key required on /api/* (X-API-Key header)")
			} else {
				logger.Info().Msg("auth: disabled (no access_key configured)")
			}
			logger.Info().Str("provider", provider).Str("model", a.Model()).Msg("adapter ready")

			addr := fmt.Sprintf(":%d", cfg.Port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info().Str("addr", addr).Msg("improver listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				logger.Info().Msg("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				logger.Info().Msg("server stopped")
				return nil
			})

			if err := g.Wait(); err != nil {
				logger.Error().Err(err).Msg("serve")
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override listen port")
	return cmd
}

