package commands

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/cli/repo/fs"
	"CaseTrack/internal/config"
	"CaseTrack/internal/console"
	"CaseTrack/internal/handlers"
	"CaseTrack/internal/lookup"
	"CaseTrack/internal/queue"
	"CaseTrack/internal/recordstore"
	"CaseTrack/internal/repo"
	"CaseTrack/internal/service"
	"CaseTrack/internal/session"
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newEnv поднимает сервер CaseTrack на in-memory SQLite и собирает консоль поверх HTTP-клиента.
func newEnv(t *testing.T) *Env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: fmt.Sprintf("file:cmd_%s?mode=memory&cache=shared", name)}
	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	users := service.NewUserService(repo.NewUserRepository(db))
	_, err = users.EnsureAdmin(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)

	cfg := &config.Config{AuthSecret: "s", SessionTTL: time.Hour, BlobMaxSizeMB: 1}
	h := handlers.NewHandler(handlers.Services{
		Users:       users,
		Cases:       service.NewCaseService(repo.NewCaseRepository(db), logger),
		Submissions: service.NewSubmissionService(repo.NewSubmissionRepository(db), queue.LogNotifier{Logger: logger}, logger),
		Blobs:       store,
	}, logger, cfg)
	srv := httptest.NewServer(h.Router)
	cfg.PublicURL = srv.URL
	cfg.ServerURL = srv.URL
	cfg.TokenFile = filepath.Join(t.TempDir(), "token")

	client := recordstore.NewHTTPClient(cfg.ServerURL, cfg.PublicURL, fs.TokenFile{Path: cfg.TokenFile}, logger)
	guard := session.NewGuard(client, logger)
	guard.Start(context.Background())
	board := console.NewBoard(client, logger)
	inbox := console.NewInbox(client, logger)

	t.Cleanup(func() {
		board.Close()
		inbox.Close()
		guard.Close()
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &Env{
		Config:   cfg,
		Guard:    guard,
		Board:    board,
		Inbox:    inbox,
		Lookup:   lookup.NewService(client, logger),
		ReadFile: os.ReadFile,
	}
}

// run выполняет строку как в интерактивном режиме и возвращает вывод.
func run(t *testing.T, env *Env, line string) string {
	t.Helper()
	args, err := SplitLine(line)
	require.NoError(t, err)
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	Dispatch(context.Background(), env, args)
	return buf.String()
}
