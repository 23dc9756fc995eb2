package main

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/config"
	"CaseTrack/internal/handlers"
	"CaseTrack/internal/middleware"
	"CaseTrack/internal/queue"
	"CaseTrack/internal/repo"
	"CaseTrack/internal/service"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userService := service.NewUserService(repo.NewUserRepository(gormDB))
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			sugar.Fatalw("failed to provision admin user", "error", err)
		}
		sugar.Infow("admin user", "email", cfg.AdminEmail, "created", created)
	}

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		sugar.Fatalw("failed to initialize blob store", "error", err)
	}

	var notifier queue.Notifier = queue.LogNotifier{Logger: sugar}
	if cfg.RedisAddr != "" {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer client.Close()
		notifier = queue.NewAsynqNotifier(client)
	}

	h := handlers.NewHandler(handlers.Services{
		Users:       userService,
		Cases:       service.NewCaseService(repo.NewCaseRepository(gormDB), sugar),
		Submissions: service.NewSubmissionService(repo.NewSubmissionRepository(gormDB), notifier, sugar),
		Blobs:       store,
		Revoked:     service.NewRevocationList(4096, cfg.SessionTTL),
	}, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"PublicURL", cfg.PublicURL,
		"S3Endpoint", cfg.S3Endpoint,
		"RedisAddr", cfg.RedisAddr,
	)

	srv := &http.Server{Addr: addr, Handler: h.Router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
}

// newBlobStore: S3/MinIO, если задан endpoint, иначе локальный каталог.
func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	if cfg.S3Endpoint == "" {
		return blob.NewFSStore(cfg.BlobDir)
	}
	s, err := blob.NewMinioStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
