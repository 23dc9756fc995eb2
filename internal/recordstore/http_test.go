package recordstore_test

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/config"
	"CaseTrack/internal/handlers"
	"CaseTrack/internal/model"
	"CaseTrack/internal/queue"
	"CaseTrack/internal/recordstore"
	"CaseTrack/internal/repo"
	"CaseTrack/internal/service"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

type memTokens struct {
	mu  sync.Mutex
	tok string
}

func (m *memTokens) Save(t string) error { m.mu.Lock(); m.tok = t; m.mu.Unlock(); return nil }
func (m *memTokens) Clear() error        { m.mu.Lock(); m.tok = ""; m.mu.Unlock(); return nil }
func (m *memTokens) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tok == "" {
		return "", errors.New("no token")
	}
	return m.tok, nil
}

// newBackend поднимает настоящий сервер CaseTrack поверх in-memory SQLite.
func newBackend(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: fmt.Sprintf("file:rs_%s?mode=memory&cache=shared", name)}
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
	// публичные ссылки строятся от адреса тестового сервера
	cfg.PublicURL = srv.URL
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return srv, cfg
}

func newClient(t *testing.T) (*recordstore.HTTPClient, *memTokens, *httptest.Server) {
	t.Helper()
	srv, cfg := newBackend(t)
	tokens := &memTokens{}
	return recordstore.NewHTTPClient(srv.URL, cfg.PublicURL, tokens, zap.NewNop().Sugar()), tokens, srv
}

func TestHTTPClient_SessionLifecycle(t *testing.T) {
	c, tokens, _ := newClient(t)
	ctx := context.Background()

	var events []*recordstore.Session
	unsubscribe := c.SubscribeSession(func(s *recordstore.Session) { events = append(events, s) })
	defer unsubscribe()

	s, err := c.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = c.StartSession(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, recordstore.ErrUnauthorized)
	assert.Equal(t, "Invalid login credentials", recordstore.Message(err, "fallback"))

	s, err = c.StartSession(ctx, "admin@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", s.Email)
	tok, _ := tokens.Load()
	assert.NotEmpty(t, tok)

	cur, err := c.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, s.UserID, cur.UserID)

	require.NoError(t, c.EndSession(ctx))
	tok, _ = tokens.Load()
	assert.Empty(t, tok)

	require.Len(t, events, 2)
	assert.NotNil(t, events[0])
	assert.Nil(t, events[1])
}

func TestHTTPClient_UnauthorizedNotifiesSubscribers(t *testing.T) {
	c, tokens, _ := newClient(t)
	ctx := context.Background()
	_ = tokens.Save("stale-token")

	lost := 0
	c.SubscribeSession(func(s *recordstore.Session) {
		if s == nil {
			lost++
		}
	})

	_, err := c.ListCases(ctx)
	assert.ErrorIs(t, err, recordstore.ErrUnauthorized)
	assert.Equal(t, 1, lost)
	tok, _ := tokens.Load()
	assert.Empty(t, tok)
}

func TestHTTPClient_CaseRoundTrip(t *testing.T) {
	c, _, _ := newClient(t)
	ctx := context.Background()
	_, err := c.StartSession(ctx, "admin@example.com", "pw")
	require.NoError(t, err)

	created, err := c.InsertCase(ctx, model.Case{
		CaseNumber: "CF-7", Status: model.StatusPending, FullName: "A", IDNumber: "1",
		Email: "a@b.c", PhoneNumber: "5", Country: "US",
	})
	require.NoError(t, err)

	_, err = c.InsertCase(ctx, model.Case{
		CaseNumber: "CF-7", Status: model.StatusPending, FullName: "B", IDNumber: "2",
		Email: "b@c.d", PhoneNumber: "6", Country: "US",
	})
	assert.ErrorIs(t, err, recordstore.ErrConflict)

	found, err := c.FindCaseByNumber(ctx, "CF-7")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "0", found.PaymentRequired)

	missing, err := c.FindCaseByNumber(ctx, "CF-404")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, c.UpdateCase(ctx, created.ID, map[string]any{"status": "Received"}))
	list, err := c.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusReceived, list[0].Status)

	require.NoError(t, c.DeleteCase(ctx, created.ID))
	assert.ErrorIs(t, c.DeleteCase(ctx, created.ID), recordstore.ErrNotFound)
}

func TestHTTPClient_FindCaseByNumberEscapedChars(t *testing.T) {
	c, _, _ := newClient(t)
	ctx := context.Background()
	_, err := c.StartSession(ctx, "admin@example.com", "pw")
	require.NoError(t, err)

	for _, number := range []string{"CF/2024/1", "CF 2024", "CF%1", "CF?x#y"} {
		created, err := c.InsertCase(ctx, model.Case{
			CaseNumber: number, Status: model.StatusPending, FullName: "A", IDNumber: "1",
			Email: "a@b.c", PhoneNumber: "5", Country: "US",
		})
		require.NoError(t, err, number)

		found, err := c.FindCaseByNumber(ctx, number)
		require.NoError(t, err, number)
		require.NotNil(t, found, number)
		assert.Equal(t, created.ID, found.ID, number)
		assert.Equal(t, number, found.CaseNumber)
	}
}

func TestHTTPClient_BlobsAndContact(t *testing.T) {
	c, _, srv := newClient(t)
	ctx := context.Background()
	_, err := c.StartSession(ctx, "admin@example.com", "pw")
	require.NoError(t, err)

	pdf, err := os.ReadFile("../pdfcheck/testdata/one-page.pdf")
	require.NoError(t, err)

	key := "c1-1700000000000.pdf"
	require.NoError(t, c.UploadBlob(ctx, key, pdf, recordstore.UploadOptions{NoOverwrite: true}))
	assert.ErrorIs(t, c.UploadBlob(ctx, key, pdf, recordstore.UploadOptions{NoOverwrite: true}), recordstore.ErrConflict)

	url := c.PublicURL(key)
	assert.Equal(t, srv.URL+"/files/"+key, url)
	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, c.DeleteBlob(ctx, key))

	assert.True(t, c.DispatchContact(ctx, recordstore.ContactMessage{Name: "A", Email: "a@b.co", Subject: "Hi", Message: "Hello"}))
	assert.False(t, c.DispatchContact(ctx, recordstore.ContactMessage{Name: "A", Email: "bad"}))

	subs, err := c.ListSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NoError(t, c.MarkSubmissionRead(ctx, subs[0].ID))
	require.NoError(t, c.MarkSubmissionRead(ctx, subs[0].ID))
	require.NoError(t, c.DeleteSubmission(ctx, subs[0].ID))
	assert.ErrorIs(t, c.DeleteSubmission(ctx, subs[0].ID), recordstore.ErrNotFound)
}

func TestMessage_Fallback(t *testing.T) {
	assert.Equal(t, "generic", recordstore.Message(errors.New("dial tcp: refused"), "generic"))
	assert.Equal(t, "boom", recordstore.Message(&recordstore.BackendError{Status: 500, Message: "boom"}, "generic"))
}
