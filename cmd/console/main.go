package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CaseTrack/internal/cli/commands"
	"CaseTrack/internal/cli/repo/fs"
	"CaseTrack/internal/config"
	"CaseTrack/internal/console"
	"CaseTrack/internal/lookup"
	"CaseTrack/internal/recordstore"
	"CaseTrack/internal/session"

	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// период проверки сессии в интерактивном режиме
const sessionCheckInterval = time.Minute

func main() {
	// Load unified config (env + flags)
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	logger, err := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := recordstore.NewHTTPClient(cfg.ServerURL, cfg.PublicURL, fs.TokenFile{Path: cfg.TokenFile}, sugar)
	guard := session.NewGuard(client, sugar)
	guard.Start(ctx)
	defer guard.Close()

	board := console.NewBoard(client, sugar)
	defer board.Close()
	inbox := console.NewInbox(client, sugar)
	defer inbox.Close()

	env := &commands.Env{
		Config:   cfg,
		Guard:    guard,
		Board:    board,
		Inbox:    inbox,
		Lookup:   lookup.NewService(client, sugar),
		ReadFile: os.ReadFile,
	}

	// разовый запуск: casetrack <command> [args]
	if args := flag.Args(); len(args) > 0 {
		if code := commands.Dispatch(ctx, env, args); code != 0 {
			os.Exit(code)
		}
		return
	}

	go client.WatchSession(ctx, sessionCheckInterval)
	fmt.Printf("CaseTrack console %s, server %s. Type `help` for commands.\n", version, cfg.ServerURL)
	if err := commands.Loop(ctx, env, os.Stdin); err != nil && ctx.Err() == nil {
		sugar.Errorw("console input failed", "error", err)
	}
}

func printVersion() {
	fmt.Printf("CaseTrack console\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
