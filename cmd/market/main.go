package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/barkmint/market/internal/api"
	"github.com/barkmint/market/internal/config"
	"github.com/barkmint/market/internal/custody"
	"github.com/barkmint/market/internal/database"
	"github.com/barkmint/market/internal/domain"
	"github.com/barkmint/market/internal/events"
	"github.com/barkmint/market/internal/export"
	"github.com/barkmint/market/internal/market"
	"github.com/barkmint/market/internal/report"
	"github.com/barkmint/market/internal/store"
	"github.com/barkmint/market/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	// Optional; production deployments configure the environment directly.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "market",
		Usage: "on-ledger asset registry and marketplace engine",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run migrations and start the marketplace server",
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runMigrate(c *cli.Context) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := database.Connect(c.Context, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	return database.RunMigrations(c.Context, pool, migrationsSub)
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Storage, custody ledger and audit sink share the pool, so the
	// settlement legs and the record mutation commit as one unit.
	recordStore := store.NewPgStore(pool)
	ledger := custody.NewPgLedger(pool)
	sink := events.NewPgSink(pool)
	txRunner := database.NewTxRunner(pool)

	engine := market.NewEngine(recordStore, ledger, sink, txRunner,
		market.FeePolicy{
			CreatorPercent:  cfg.CreatorFeePercent,
			PlatformPercent: cfg.PlatformFeePercent,
		},
		market.Beneficiaries{
			Creator:  domain.Identity(cfg.CreatorIdentity),
			Platform: domain.Identity(cfg.PlatformIdentity),
		},
		cfg.MaxBatchSize)

	reportRepo := report.NewPgRepository(pool)
	reportSvc := report.NewService(sink, reportRepo)

	var writers []export.ReportWriter
	if cfg.ReportExportDir != "" {
		writers = append(writers, export.NewXlsxWriter(cfg.ReportExportDir))
	}
	if cfg.SheetsSpreadsheetID != "" && cfg.SheetsCredentials != "" {
		sheetsWriter, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentials)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		writers = append(writers, sheetsWriter)
	}

	var hook worker.AfterReportHook
	if len(writers) > 0 {
		hook = export.NewService(reportRepo, int32(cfg.DisplayDigits), writers...)
	}

	reportWorker := worker.NewReportWorker(reportSvc, cfg.ReportWorkerInterval, hook)
	go reportWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, report generation endpoint is unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, engine, sink, ledger, reportSvc, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
