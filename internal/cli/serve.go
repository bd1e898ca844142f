package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/adspanel/internal/adapter/driven/googleads"
	httphandler "github.com/ericfisherdev/adspanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/adspanel/internal/application"
	"github.com/ericfisherdev/adspanel/internal/config"
	"github.com/ericfisherdev/adspanel/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the API server",
		Long: `Start the HTTP server that validates credentials and reads campaign data
from the Google Ads API. The server keeps no state; every request carries its
own credential set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := cfg.LogLevel
			if opts.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", listen, err)
			}
			return serve(cmd.Context(), ln, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", cfg.ListenAddr, "Address to listen on")
	return cmd
}

// newServerHandler wires the backend services behind the HTTP API.
func newServerHandler(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	platforms := googleads.NewFactory(googleads.Options{
		BaseURL:    cfg.AdsAPIURL,
		APIVersion: cfg.AdsAPIVersion,
		HTTPClient: httpClient,
		Metrics:    m,
		Logger:     logger,
	})
	authorizer := googleads.NewAuthorizer("", httpClient)

	handler := httphandler.NewHandler(
		application.NewAccountValidator(platforms, logger),
		application.NewCampaignReporter(platforms, logger),
		application.NewOAuthService(authorizer),
		m,
		logger,
	)
	return httphandler.NewServeMux(handler, logger)
}

// serve runs the HTTP server on ln until ctx is cancelled, then drains it.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config, logger *slog.Logger) error {
	m := metrics.NewMetrics("adspanel")

	srv := &http.Server{
		Handler:           newServerHandler(cfg, m, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.HTTPTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
