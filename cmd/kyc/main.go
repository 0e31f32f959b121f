package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	httphealth "3tcapital/ms_kyc_core/internal/adapters/http/health"
	httpkyc "3tcapital/ms_kyc_core/internal/adapters/http/kyc"
	"3tcapital/ms_kyc_core/internal/adapters/identity/colombia"
	"3tcapital/ms_kyc_core/internal/adapters/identity/ecuador"
	"3tcapital/ms_kyc_core/internal/adapters/identity/mexico"
	"3tcapital/ms_kyc_core/internal/adapters/identity/usa"
	kycpostgres "3tcapital/ms_kyc_core/internal/adapters/kyc/postgres"
	"3tcapital/ms_kyc_core/internal/adapters/ocr/tesseract"
	apphealth "3tcapital/ms_kyc_core/internal/application/health"
	appkyc "3tcapital/ms_kyc_core/internal/application/kyc"
	"3tcapital/ms_kyc_core/internal/core/identity"
	corekyc "3tcapital/ms_kyc_core/internal/core/kyc"
	"3tcapital/ms_kyc_core/internal/core/ocr"
	"3tcapital/ms_kyc_core/internal/infrastructure/concurrency"
	"3tcapital/ms_kyc_core/internal/infrastructure/config"
	"3tcapital/ms_kyc_core/internal/infrastructure/database"
	"3tcapital/ms_kyc_core/internal/infrastructure/http/server"
	"3tcapital/ms_kyc_core/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := identity.NewRegistry(ecuador.New(), colombia.New(), mexico.New(), usa.New())

	var checks []apphealth.Check

	// Storage is optional: without it extraction still works but nothing is recorded.
	var repo corekyc.Repository
	if cfg.KYC.PersistEnabled && cfg.Database.Configured() {
		pool, err := openDatabase(ctx, cfg.Database, cfg.App.Name)
		if err != nil {
			log.Warn("Failed to connect to database, KYC documents will not be stored",
				"error", err,
				"host", cfg.Database.Host,
				"database", cfg.Database.Database,
				"user", cfg.Database.User,
				"password_set", cfg.Database.Password != "")
			log.Info("Document lookup endpoints will return 503 until the database is available")
		} else {
			defer pool.Close()
			if err := database.RunMigrations(ctx, pool, log); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			repo = kycpostgres.NewRepository(pool, log)
			checks = append(checks, apphealth.Check{Name: "postgres", Probe: pool.Ping})
			log.Info("Database connection established", "database", cfg.Database.Database)
		}
	} else {
		log.Info("KYC document storage disabled",
			"persist_enabled", cfg.KYC.PersistEnabled,
			"database_configured", cfg.Database.Configured(),
		)
	}

	limiter := concurrency.NewLimiter(cfg.OCR.MaxConcurrent)

	var engine ocr.Engine
	if cfg.OCR.Enabled {
		engine = tesseract.NewEngine(cfg.OCR.Languages, log)
		checks = append(checks, apphealth.Check{
			Name:    "ocr:" + engine.Name(),
			Details: func() map[string]int64 { return limiter.Stats().Gauges() },
		})
		log.Info("OCR engine configured",
			"engine", engine.Name(),
			"languages", cfg.OCR.Languages,
			"max_concurrent", cfg.OCR.MaxConcurrent,
			"timeout", cfg.OCR.Timeout,
		)
	} else {
		log.Warn("OCR disabled - image uploads will return 503")
	}

	kycService := appkyc.NewService(registry, repo, engine, limiter, log)

	countries := make([]string, 0, len(registry.Codes()))
	for _, code := range registry.Codes() {
		countries = append(countries, code.String())
	}
	healthService := apphealth.NewService(apphealth.Metadata{
		Service:     cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		Countries:   countries,
	}, checks...)

	srv, err := server.New(server.Options{
		Config:        cfg,
		Logger:        log,
		HealthHandler: http.HandlerFunc(httphealth.NewHandler(healthService).Status),
		KYCHandler:    httpkyc.NewHandler(kycService, cfg.KYC.MaxUploadBytes, log),
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer srv.Close()

	log.Info("Starting HTTP server", "port", cfg.HTTP.Port, "countries", countries)
	return srv.Run(ctx)
}

func openDatabase(ctx context.Context, cfg config.DatabaseSettings, appName string) (*pgxpool.Pool, error) {
	return database.NewPool(ctx, database.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Database:        cfg.Database,
		User:            cfg.User,
		Password:        cfg.Password,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ApplicationName: appName,
	})
}
