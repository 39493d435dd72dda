package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jhrphoto/media-pipeline-go/internal/cache"
	"github.com/jhrphoto/media-pipeline-go/internal/config"
	"github.com/jhrphoto/media-pipeline-go/internal/db"
	"github.com/jhrphoto/media-pipeline-go/internal/handler/api"
	"github.com/jhrphoto/media-pipeline-go/internal/logger"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/renderer"
	"github.com/jhrphoto/media-pipeline-go/internal/repository/mariadb"
	"github.com/jhrphoto/media-pipeline-go/internal/storage"
	mediaSvc "github.com/jhrphoto/media-pipeline-go/internal/usecase/media"
	msuuid "github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	r := initRouter(ctx, cfg.JWTSecret)

	strg := initStorage(ctx, cfg)
	initBucket(ctx, strg, cfg.MediaBucket)

	mediaRepo := mariadb.NewMediaRepository(database.DB)
	dedupRepo := mariadb.NewDedupRepository(database.DB)
	var ca port.Cache
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis cache enabled")
	} else {
		ca = cache.NewNoop()
		logger.Warn(ctx, "⚠️  Redis not configured — caching is disabled")
	}

	uploaderSvc := mediaSvc.NewMediaUploader(mediaRepo, dedupRepo, strg, ca, msuuid.NewUUID, cfg.MediaBucket, cfg.MaxUploadBytes)
	r.Post("/medias", api.UploadMediaHandler(uploaderSvc, cfg.MaxUploadBytes))

	getMediaSvc := mediaSvc.NewMediaGetter(mediaRepo, strg, cfg.MediaBucket)
	rendererSvc := renderer.NewHTTPRenderer(ca)
	r.With(api.WithID()).
		Get("/medias/{id}", api.GetMediaHandler(rendererSvc, getMediaSvc))

	deleteMediaSvc := mediaSvc.NewMediaDeleter(mediaRepo, ca, strg, cfg.MediaBucket)
	r.With(api.WithID()).
		Delete("/medias/{id}", api.DeleteMediaHandler(deleteMediaSvc))

	listenRouter(ctx, r, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initRouter(ctx context.Context, jwtSecret string) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(api.WithJWTAuth(jwtSecret))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	strg, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initBucket(ctx context.Context, strg port.Storage, bucket string) {
	if err := strg.InitBucket(bucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", bucket, err)
		os.Exit(1)
	}
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
