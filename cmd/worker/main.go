package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhrphoto/media-pipeline-go/internal/cache"
	"github.com/jhrphoto/media-pipeline-go/internal/config"
	"github.com/jhrphoto/media-pipeline-go/internal/db"
	workerHandler "github.com/jhrphoto/media-pipeline-go/internal/handler/worker"
	"github.com/jhrphoto/media-pipeline-go/internal/logger"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/repository/mariadb"
	"github.com/jhrphoto/media-pipeline-go/internal/storage"
	"github.com/jhrphoto/media-pipeline-go/internal/task"
	"github.com/jhrphoto/media-pipeline-go/internal/transform"
	mediaSvc "github.com/jhrphoto/media-pipeline-go/internal/usecase/media"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg := initStorage(cfg)
	initBucket(strg, cfg.MediaBucket)

	repo := mariadb.NewMediaRepository(database.DB)
	engine := transform.NewEngine(transform.NewWebPEncoder(), transform.NewPDFOptimiser())
	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	ca := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	processSvc := mediaSvc.NewMediaProcessor(repo, engine, strg, ca, cfg.MediaBucket, cfg.VariantMaxBytes)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProcessMedia, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProcessMediaPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProcessMediaHandler(ctx, p, processSvc)
	})

	// bridge storage-write events into queue tasks; uploads only become
	// pipeline work once the original object is durably stored
	listenCtx, stopListening := context.WithCancel(ctx)
	defer stopListening()
	go listenObjectCreated(listenCtx, strg, dispatcher, cfg.MediaBucket)

	runWorker(ctx, mux, cfg, database)
}

func listenObjectCreated(ctx context.Context, strg *storage.MinioStorage, dispatcher port.TaskDispatcher, bucket string) {
	events, err := strg.ObjectCreated(ctx, bucket, mediaSvc.OriginalsPrefix)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to listen for storage events: %v", err)
		os.Exit(1)
	}

	for ev := range events {
		logger.Infof(ctx, "storage event for %q, enqueueing pipeline task...", ev.Key)
		if err := dispatcher.EnqueueProcessMedia(ctx, ev.Key); err != nil {
			// lost events are recovered later by the backlog command
			logger.Warnf(ctx, "failed to enqueue task for %q: %v", ev.Key, err)
		}
	}
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(cfg *config.Settings) *storage.MinioStorage {
	strg, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initBucket(strg port.Storage, bucket string) {
	if err := strg.InitBucket(bucket); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize bucket %q: %v", bucket, err)
		os.Exit(1)
	}
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 10})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// Give Asynq up to 30 sec to finish tasks
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	srv.Shutdown()       // stop accepting new tasks, finish in-flight
	<-shutdownCtx.Done() // either timeout or done

	// Close DB
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
