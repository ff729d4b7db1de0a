// Package main is the entry point for the Portsync portfolio dashboard server.
// It aggregates holdings exported from multiple brokers into a Google Sheet,
// prices every position through a chain of public quote APIs, and serves the
// combined summary over HTTP and a websocket stream.
//
// Startup sequence:
//  1. Load configuration from environment variables
//  2. Initialize logging
//  3. Open the price cache and snapshot databases
//  4. Wire quote clients into the resolver's fallback chains
//  5. Run an initial refresh so the first request is served instantly
//  6. Start the cron scheduler and HTTP server
//  7. Wait for shutdown signal and stop gracefully
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amader/portsync/internal/clients/alphavantage"
	"github.com/amader/portsync/internal/clients/coincap"
	"github.com/amader/portsync/internal/clients/coingecko"
	"github.com/amader/portsync/internal/clients/finnhub"
	"github.com/amader/portsync/internal/clients/fmp"
	"github.com/amader/portsync/internal/clients/sheets"
	"github.com/amader/portsync/internal/clients/twelvedata"
	"github.com/amader/portsync/internal/clients/yahoo"
	"github.com/amader/portsync/internal/config"
	"github.com/amader/portsync/internal/database"
	"github.com/amader/portsync/internal/modules/portfolio"
	"github.com/amader/portsync/internal/modules/pricing"
	"github.com/amader/portsync/internal/pricecache"
	"github.com/amader/portsync/internal/scheduler"
	"github.com/amader/portsync/internal/server"
	"github.com/amader/portsync/internal/snapshots"
	"github.com/amader/portsync/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting Portsync")

	// Two databases: a throwaway price cache and the durable snapshot history.
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "pricecache.db"),
		Profile: database.ProfileCache,
		Name:    "pricecache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open price cache database")
	}
	defer cacheDB.Close()

	snapshotDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "snapshots.db"),
		Profile: database.ProfileStandard,
		Name:    "snapshots",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshot database")
	}
	defer snapshotDB.Close()

	if err := pricecache.InitSchema(cacheDB.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize price cache schema")
	}
	if err := snapshots.InitSchema(snapshotDB.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshots schema")
	}

	cacheRepo := pricecache.NewRepository(cacheDB.Conn())
	snapshotRepo := snapshots.NewRepository(snapshotDB.Conn())

	// Quote clients. Order inside each chain is the fallback order.
	fmpClient := fmp.NewClient(cfg.FMPAPIKey, log)
	twelveDataClient := twelvedata.NewClient(cfg.TwelveDataAPIKey, log)
	finnhubClient := finnhub.NewClient(cfg.FinnhubToken, log)
	yahooClient := yahoo.NewClient(log)
	alphaVantageClient := alphavantage.NewClient(cfg.AlphaVantageAPIKey, log)
	coinGeckoClient := coingecko.NewClient(log)
	coinCapClient := coincap.NewClient(log)

	equityChain := []pricing.Source{
		pricing.NewSource("fmp", fmpClient.Quote),
		pricing.NewSource("twelvedata", twelveDataClient.Quote),
		pricing.NewSource("finnhub", finnhubClient.Quote),
		pricing.NewSource("yahoo", yahooClient.Quote),
		pricing.NewSource("alphavantage", alphaVantageClient.Quote),
		pricing.NewSource("fmp-short", fmpClient.QuoteShort),
	}
	cryptoChain := []pricing.Source{
		pricing.NewSource("coingecko", coinGeckoClient.Quote),
		pricing.NewSource("coincap", coinCapClient.Quote),
	}

	resolver := pricing.NewResolver(equityChain, cryptoChain, cacheRepo, log)
	sheetsClient := sheets.NewClient(log)
	summaryService := portfolio.NewService(sheetsClient, resolver, cfg.Brokers, log)

	hub := server.NewStreamHub(log)
	refreshJob := scheduler.NewRefreshJob(summaryService, snapshotRepo, hub, 2*time.Minute, log)

	// First cycle runs before the server accepts traffic so /summary never
	// responds 503 in normal operation.
	if err := refreshJob.Run(); err != nil {
		log.Error().Err(err).Msg("Initial refresh failed")
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(scheduler.EveryMinutes(cfg.RefreshIntervalMin), refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}

	maintenanceJob := scheduler.NewMaintenanceJob(cacheRepo, snapshotRepo, []*database.DB{cacheDB, snapshotDB}, log)
	if err := sched.AddJob("@hourly", maintenanceJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register maintenance job")
	}

	sched.Start()

	systemHandlers := server.NewSystemHandlers(log, cfg.DataDir, []*database.DB{cacheDB, snapshotDB})

	srv := server.New(server.Config{
		Log:        log,
		Port:       cfg.Port,
		DevMode:    cfg.DevMode,
		RefreshJob: refreshJob,
		Snapshots:  snapshotRepo,
		Hub:        hub,
		System:     systemHandlers,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
