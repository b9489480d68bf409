package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/tasting-booking-gateway/internal/config"
	"github.com/hackgods/tasting-booking-gateway/internal/db"
	"github.com/hackgods/tasting-booking-gateway/internal/journal"
	"github.com/hackgods/tasting-booking-gateway/internal/logger"
)

type pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsProduction(), "journal-pruner")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("journal-pruner starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval),
		zap.Duration("retention", cfg.JournalRetention),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	if err == nil {
		err = db.EnsureSchema(pgCtx, pgPool)
	}
	cancelPg()
	if err != nil {
		log.Fatal("postgres setup error", zap.Error(err))
	}
	defer pgPool.Close()
	log.Info("connected to Postgres")

	repo := journal.NewPgRepository(pgPool)

	// Run once at startup
	runOnce(rootCtx, log, repo, cfg.JournalRetention)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info("shutdown signal received, stopping journal pruner")
			return
		case <-ticker.C:
			runOnce(rootCtx, log, repo, cfg.JournalRetention)
		}
	}
}

func runOnce(ctx context.Context, log *zap.Logger, repo pruner, retention time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	cutoff := start.Add(-retention)
	n, err := repo.PruneBefore(runCtx, cutoff)
	if err != nil {
		log.Error("prune run error", zap.Error(err))
		return
	}
	log.Info("prune run complete",
		zap.Int64("deleted", n),
		zap.Time("cutoff", cutoff),
		zap.Duration("took", time.Since(start)),
	)
}
