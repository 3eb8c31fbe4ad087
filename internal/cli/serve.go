package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/studentdesk/internal/config"
	"github.com/mcoot/studentdesk/internal/factory"
	"github.com/mcoot/studentdesk/internal/middleware"
	"github.com/mcoot/studentdesk/internal/server"
	"github.com/mcoot/studentdesk/internal/web"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr        string
		storageType string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if storageType != "" {
				cfg.StorageType = storageType
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides ADDR)")
	cmd.Flags().StringVar(&storageType, "storage", "", "Storage backend: memory, redis, postgres (overrides STORAGE_TYPE)")

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	app, err := factory.New(ctx, factory.ConfigFrom(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("storage close failed", slog.String("error", err.Error()))
		}
	}()

	go app.AuthService.RunCleanup(ctx, cfg.CleanupInterval)

	router := web.NewRouter(web.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		StudentsController: app.StudentsController,
		Random:             app.Random,
		Metrics:            middleware.NewMetrics("studentdesk"),
		CookieSecure:       cfg.CookieSecure,
	})

	serverConfig := server.DefaultConfig()
	serverConfig.Addr = cfg.Addr
	srv := server.New(router, serverConfig, logger)

	logger.Info("server configured",
		slog.String("addr", srv.Addr()),
		slog.String("storage", cfg.StorageType),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}
