package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"

	_ "github.com/Prabalranjan/Power-BI-Data-Download/docs" // Swagger docs
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/config"
	apperrors "github.com/Prabalranjan/Power-BI-Data-Download/internal/errors"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/exporter"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/infrastructure"
	customMiddleware "github.com/Prabalranjan/Power-BI-Data-Download/internal/middleware"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/query"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/services"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/store"
	handlers "github.com/Prabalranjan/Power-BI-Data-Download/internal/transport/http"
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *sql.DB
	Router        *chi.Mux
	Server        *http.Server
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ExportMetrics
	ErrorHandler  *apperrors.ErrorHandler
	ExportService *services.ExportService
	HealthService *services.HealthService
}

// NewApplication loads configuration, initializes logging and telemetry,
// connects to MySQL and wires the HTTP server.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", contracts.ServiceTitle),
		slog.String("version", contracts.Version),
		slog.String("db_addr", cfg.Database.Addr()),
		slog.String("core_schema", cfg.Export.CoreSchema),
		slog.String("session", cfg.Export.Session),
		slog.Bool("api_key_required", cfg.Security.APIKeyRequired))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	db, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return New(cfg, logger, db, providers)
}

// New wires an application around an existing database handle and
// telemetry providers.
func New(cfg *config.Config, logger *slog.Logger, db *sql.DB, providers *infrastructure.OTelProviders) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if providers == nil {
		return nil, errors.New("telemetry providers are nil")
	}

	metrics, err := infrastructure.NewExportMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create export metrics: %w", err)
	}

	var stats func() sql.DBStats
	if db != nil {
		stats = db.Stats
	}
	if err := infrastructure.RegisterRuntimeMetrics(providers.Meter, stats); err != nil {
		return nil, fmt.Errorf("failed to register runtime metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  apperrors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() error {
	builder, err := query.NewBuilder(a.Config.Export.Tables())
	if err != nil {
		return fmt.Errorf("invalid export tables: %w", err)
	}

	renderer := exporter.New(exporter.Options{
		CSVBOM:    a.Config.Export.CSVBOM,
		SheetName: a.Config.Export.SheetName,
	})

	var (
		querier store.Querier
		pinger  services.Pinger
	)
	if a.DB != nil {
		querier = a.DB
		pinger = a.DB
	}

	repo := store.NewRepository(querier, a.Config.Database.QueryTimeout, a.Logger)
	a.ExportService = services.NewExportService(repo, renderer, builder, a.Logger, a.Metrics).
		WithDefaultFilename(a.Config.Export.Filename)
	a.HealthService = services.NewHealthService(pinger, a.Config.Database.ConnectTimeout, a.Logger)

	return nil
}

// setupRouter applies the middleware chain and mounts every route.
// Order: RequestID, RealIP, OTel, Logger, Recoverer, security headers, CORS.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(a.Config.Security.AllowedOrigins))

		health := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/version", health.Version)

		r.Get("/swagger/*", httpSwagger.WrapHandler)

		r.Group(func(r chi.Router) {
			if a.Config.Security.RateLimit.Enabled {
				r.Use(customMiddleware.NewRateLimiter(
					a.Config.Security.RateLimit.RPS,
					a.Config.Security.RateLimit.Burst,
					a.ErrorHandler,
					a.Logger,
				).Handler)
			}
			r.Use(customMiddleware.APIKeyAuth(a.Config.Security, a.ErrorHandler, a.Logger))
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

			export := handlers.NewExportHandler(a.ExportService, a.Logger, a.ErrorHandler)
			r.Get("/export", export.Export)
		})
	})

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           net.JoinHostPort("", strconv.Itoa(a.Config.Server.Port)),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("version", contracts.Version))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop drains in-flight requests, then releases the database and telemetry.
func (a *Application) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Logger.InfoContext(ctx, "Shutting down", slog.Duration("timeout", a.Config.Server.ShutdownTimeout))

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("log file close: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	a.Logger.Info("Shutdown complete")
	return nil
}

// Run starts the application and stops on SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Start(ctx)
}
