package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scrapstack/hardware-prices-backend/internal/catalog"
	"github.com/scrapstack/hardware-prices-backend/internal/handlers"
	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/observability"
	"github.com/scrapstack/hardware-prices-backend/internal/server"
	"github.com/scrapstack/hardware-prices-backend/internal/services"
	"github.com/scrapstack/hardware-prices-backend/internal/source"
)

type App struct {
	Log     *logger.Logger
	Cfg     Config
	Router  *gin.Engine
	Catalog catalog.Accessor

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	src, err := buildSource(cfg, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init %s source: %w", cfg.SourceBackend, err)
	}

	cat := catalog.New(src, cfg.CacheTTL, cfg.FetchTimeout, log)

	productService := services.NewProductService(cat, log)
	analyticsService := services.NewAnalyticsService(cat, log)

	productHandler := handlers.NewProductHandler(log, productService)
	analyticsHandler := handlers.NewAnalyticsHandler(log, analyticsService)

	otelShutdown := observability.InitTracing(context.Background(), log, observability.TracingConfig{
		Enabled:     cfg.TracingOn,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})

	router := server.NewRouter(server.RouterConfig{
		ProductHandler:   productHandler,
		AnalyticsHandler: analyticsHandler,
		TracingEnabled:   cfg.TracingOn,
		ServiceName:      cfg.ServiceName,
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		Router:       router,
		Catalog:      cat,
		otelShutdown: otelShutdown,
	}, nil
}

func buildSource(cfg Config, log *logger.Logger) (source.RecordSource, error) {
	switch cfg.SourceBackend {
	case BackendDatabase:
		return source.NewDatabaseSource(log, cfg.Database.Driver, cfg.Database.DSN)
	default:
		return source.NewSheetsSource(context.Background(), log,
			cfg.Sheets.SpreadsheetID, cfg.Sheets.ReadRange, cfg.Sheets.CredentialsFile)
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
