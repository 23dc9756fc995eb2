package handlers_test

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/config"
	"CaseTrack/internal/handlers"
	"CaseTrack/internal/middleware"
	"CaseTrack/internal/model"
	"CaseTrack/internal/queue"
	"CaseTrack/internal/repo"
	"CaseTrack/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "s3cret"
)

type testEnv struct {
	router  http.Handler
	cfg     *config.Config
	cases   *service.CaseService
	subs    *service.SubmissionService
	store   *blob.FSStore
	adminID string
}

// newTestEnv собирает роутер поверх in-memory SQLite (modernc) и каталога во временной папке.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: fmt.Sprintf("file:h_%s?mode=memory&cache=shared", name)}
	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	cfg := &config.Config{AuthSecret: "test-secret", SessionTTL: time.Hour, BlobMaxSizeMB: 1, PublicURL: "http://cases.test"}

	users := service.NewUserService(repo.NewUserRepository(db))
	_, err = users.EnsureAdmin(context.Background(), testAdminEmail, testAdminPassword)
	require.NoError(t, err)
	admin, err := users.Login(context.Background(), testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	env := &testEnv{
		cfg:     cfg,
		cases:   service.NewCaseService(repo.NewCaseRepository(db), logger),
		subs:    service.NewSubmissionService(repo.NewSubmissionRepository(db), queue.LogNotifier{Logger: logger}, logger),
		store:   store,
		adminID: admin.ID,
	}
	h := handlers.NewHandler(handlers.Services{
		Users:       users,
		Cases:       env.cases,
		Submissions: env.subs,
		Blobs:       store,
		Revoked:     service.NewRevocationList(16, time.Hour),
	}, logger, cfg)
	env.router = h.Router
	return env
}

// do выполняет запрос; withAuth добавляет cookie администратора.
func (e *testEnv) do(t *testing.T, method, path string, body any, withAuth bool) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rd = bytes.NewReader(b)
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		addAuth(t, req, e.adminID, e.cfg.AuthSecret)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func addAuth(t *testing.T, req *http.Request, userID, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_, err := middleware.SetLoginCookie(rr, userID, testAdminEmail, secret, time.Hour)
	require.NoError(t, err)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func (e *testEnv) seedCase(t *testing.T, number string) *model.Case {
	t.Helper()
	c, err := e.cases.Insert(context.Background(), service.CaseInput{
		CaseNumber:           number,
		Status:               model.StatusActive,
		FullName:             "Jane Roe",
		IDNumber:             "ID-1",
		Email:                "jane@example.com",
		PhoneNumber:          "+1 555 0100",
		Country:              "US",
		TotalRetrievedAmount: "1234.5",
	})
	require.NoError(t, err)
	return c
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
