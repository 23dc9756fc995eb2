package main

import (
	"CaseTrack/internal/config"
	"CaseTrack/internal/worker"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	if cfg.RedisAddr == "" {
		sugar.Fatalw("REDIS_ADDR is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Logger:      sugar,
	})
	processor := worker.NewProcessor(worker.LogDeliverer{Logger: sugar}, sugar)

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	sugar.Infow("worker started", "redis", cfg.RedisAddr, "concurrency", cfg.WorkerConcurrency)
	if err := server.Run(processor.Handler()); err != nil {
		sugar.Errorw("worker stopped", "error", err)
		os.Exit(1)
	}
}
