package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"royalpalm-dashboard/internal/config"
	"royalpalm-dashboard/internal/middleware"
	"royalpalm-dashboard/internal/models"
	"royalpalm-dashboard/internal/observability"
	"royalpalm-dashboard/internal/server"
	"royalpalm-dashboard/internal/services"
	"royalpalm-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "no-cache"
)

// dashboardHandler renders the page with the default (everything selected)
// views precomputed at load.
func dashboardHandler(analytics *services.Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		sel := models.DefaultSelection()
		data := templates.DashboardData{
			Options: analytics.Options(),
			Views:   analytics.Views(sel),
			Charts:  analytics.Charts(sel),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(data).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	var loader services.Loader = services.NewWorkbookLoader(logger)
	if cfg.Data.CacheEnabled {
		loader = services.NewDatasetCache(loader)
	}
	analytics := services.NewAnalytics(loader)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	defer cancel()

	start := time.Now()
	if err := analytics.LoadFromWorkbook(ctx, cfg.Data.PortfolioFile, cfg.Data.PortfolioSheet); err != nil {
		logger.Error("failed to load portfolio workbook", "error", err)
		os.Exit(1)
	}
	logger.Info("portfolio workbook loaded successfully", "duration", time.Since(start))

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics),
	}

	srv := server.NewServer(analytics, logger, templateHandlers, cfg.Data.ReportFile)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go rateLimiter.Run(sweepCtx, middleware.DefaultSweepInterval)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		stopSweep()
		logger.Debug("rate limiter sweep stopped", "clients", rateLimiter.Clients())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
