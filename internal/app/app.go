package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"strykerscli/internal/analytics"
	"strykerscli/internal/config"
	"strykerscli/internal/dataprocessing"
	apierrors "strykerscli/internal/errors"
	"strykerscli/internal/files"
	"strykerscli/internal/finance"
	"strykerscli/internal/infrastructure"
	customMiddleware "strykerscli/internal/middleware"
	"strykerscli/internal/pipeline"
	"strykerscli/internal/report"
	"strykerscli/internal/services"
	handlers "strykerscli/internal/transport/http"
	ws "strykerscli/internal/websocket"
	"strykerscli/pkg/contracts/domain"
)

// Application represents the dashboard server and everything it owns
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	WebSocketHub  *ws.Hub
	Dashboard     *services.DashboardService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	errorHandler *apierrors.ErrorHandler
	validation   *customMiddleware.ValidationMiddleware
}

// NewApplication wires the dashboard from cfg. A nil logger initialises the
// process logger from cfg.Logging.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		var err error
		logger, err = infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := config.GetPaths(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the pipeline and the services on top of it
func (a *Application) initializeServices() error {
	policy, err := domain.ParseBuyerPolicy(a.Config.Analysis.BuyerPolicy)
	if err != nil {
		return err
	}

	params := finance.ParamsFromConfig(a.Config.Finance)
	if err := params.Validate(); err != nil {
		return err
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	a.errorHandler = apierrors.NewErrorHandler(a.Logger, a.Config.Telemetry.Environment == "development")
	a.validation = customMiddleware.NewValidationMiddleware(a.Logger, a.errorHandler)

	loader := dataprocessing.NewLoader(files.NewDiscovery(""), a.Logger)
	runner := pipeline.NewRunner(loader, a.Metrics, a.Logger)

	a.Dashboard = services.NewDashboardService(services.DashboardConfig{
		Title:      config.AppName,
		Candidates: a.Paths.InputCandidates(a.Config.Data.Inputs),
		Policy:     policy,
		Analysis:   analytics.OptionsFromConfig(a.Config.Analysis),
		Params:     params,
		AssetsDir:  a.Paths.AssetsDir,
		AssetNames: config.DefaultAssetNames,
	}, runner, renderer, a.validation, a.Metrics, a.Logger)

	a.WebSocketHub = ws.NewHub(a.Logger)
	a.HealthService = services.NewHealthService(config.AppVersion, a.Dashboard, a.WebSocketHub, a.Logger)
	return nil
}

// setupRouter configures the chi middleware chain and routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger, a.errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	clientLogHandler := handlers.NewClientLogHandler(a.Logger, a.errorHandler)
	filterHandler := ws.NewFilterHandler(a.Dashboard, a.Config.Server.RequestTimeout, a.Metrics, a.Logger)
	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, filterHandler, a.isDevelopmentMode(), a.Logger)

	// Long-lived routes stay outside the request timeout.
	r.Get("/ws", wsHandler.ServeHTTP)
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(a.validation.ValidateRequest)

		r.Get("/", dashboardHandler.ServePage)
		r.Get("/api/health", healthHandler.HealthCheck)
		r.Get("/api/health/live", healthHandler.LivenessCheck)
		r.Post("/api/logs", clientLogHandler.Handle)
		r.Mount("/api", dashboardHandler.Routes())
	})

	a.Router = r
}

func (a *Application) isDevelopmentMode() bool {
	return a.Config.Telemetry.Environment == "development"
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

// Start starts the hub and the HTTP server. A listen failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.String("policy", a.Config.Analysis.BuyerPolicy))

	a.WebSocketHub.Start()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// performStartupHealthCheck loads the dataset once so a missing or broken
// CSV is reported at startup. The server keeps running: the file can be
// added later and the next request picks it up.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	ds, err := a.Dashboard.Dataset(ctx)
	if err != nil {
		return err
	}

	a.Logger.InfoContext(ctx, "Transaction data loaded",
		slog.String("source", ds.Source.Path),
		slog.Int("sales", ds.Stats.Kept),
		slog.Int("excluded", ds.Stats.Excluded()))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(context.Background(), "Received shutdown signal")

	return a.Stop(context.Background())
}
