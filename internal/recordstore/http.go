package recordstore

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/model"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const authCookie = "auth_token"

// HTTPClient реализует Client поверх HTTP API сервера.
// Токен передаётся cookie auth_token и хранится в TokenStore.
type HTTPClient struct {
	baseURL   string
	publicURL string
	http      *http.Client
	tokens    TokenStore
	logger    *zap.SugaredLogger

	mu     sync.Mutex
	subs   map[int]func(*Session)
	nextID int
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, publicURL string, tokens TokenStore, logger *zap.SugaredLogger) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		tokens:    tokens,
		logger:    logger,
		subs:      make(map[int]func(*Session)),
	}
}

func (c *HTTPClient) SubscribeSession(fn func(*Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *HTTPClient) notify(s *Session) {
	c.mu.Lock()
	fns := make([]func(*Session), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

// do выполняет запрос и декодирует JSON-ответ в out.
// 401 при наличии токена означает потерю сессии.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token, _ := c.tokens.Load()
	if token != "" {
		req.Header.Set("Cookie", authCookie+"="+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		be := &BackendError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			be.Message = e.Error
		}
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			_ = c.tokens.Clear()
			c.notify(nil)
		}
		return resp, be
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload, out any) (*http.Response, error) {
	var body io.Reader
	ct := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
		ct = "application/json"
	}
	return c.do(ctx, method, path, body, ct, out)
}

// StartSession входит и сохраняет токен из cookie ответа.
func (c *HTTPClient) StartSession(ctx context.Context, identifier, secret string) (*Session, error) {
	// старый токен не должен мешать входу
	_ = c.tokens.Clear()
	var s Session
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/session", map[string]string{"email": identifier, "password": secret}, &s)
	if err != nil {
		return nil, err
	}
	token := ""
	for _, ck := range resp.Cookies() {
		if ck.Name == authCookie && ck.Value != "" {
			token = ck.Value
		}
	}
	if token == "" {
		return nil, fmt.Errorf("no auth cookie in response")
	}
	if err := c.tokens.Save(token); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}
	c.notify(&s)
	return &s, nil
}

// EndSession завершает сессию на сервере. Локальный токен удаляется в любом случае.
func (c *HTTPClient) EndSession(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/api/session", nil, nil)
	_ = c.tokens.Clear()
	c.notify(nil)
	return err
}

func (c *HTTPClient) CurrentSession(ctx context.Context) (*Session, error) {
	if token, _ := c.tokens.Load(); token == "" {
		return nil, nil
	}
	var s Session
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/session", nil, &s); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// WatchSession периодически проверяет сессию, пока не отменён ctx.
// Истёкший токен даёт 401, и подписчики получают nil.
func (c *HTTPClient) WatchSession(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := c.CurrentSession(ctx); err != nil {
				c.logger.Debugw("session check failed", "error", err)
			}
		}
	}
}

func (c *HTTPClient) ListCases(ctx context.Context) ([]model.Case, error) {
	var out []model.Case
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/admin/cases", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) FindCaseByNumber(ctx context.Context, caseNumber string) (*model.Case, error) {
	var out model.Case
	_, err := c.doJSON(ctx, http.MethodGet, "/api/cases/lookup/"+url.PathEscape(caseNumber), nil, &out)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) InsertCase(ctx context.Context, rec model.Case) (*model.Case, error) {
	var out model.Case
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/admin/cases", rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateCase(ctx context.Context, id string, patch map[string]any) error {
	_, err := c.doJSON(ctx, http.MethodPatch, "/api/admin/cases/"+url.PathEscape(id), patch, nil)
	return err
}

func (c *HTTPClient) DeleteCase(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/api/admin/cases/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *HTTPClient) ListSubmissions(ctx context.Context) ([]model.ContactSubmission, error) {
	var out []model.ContactSubmission
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/admin/submissions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) MarkSubmissionRead(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodPatch, "/api/admin/submissions/"+url.PathEscape(id), map[string]bool{"is_read": true}, nil)
	return err
}

func (c *HTTPClient) DeleteSubmission(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/api/admin/submissions/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *HTTPClient) UploadBlob(ctx context.Context, key string, data []byte, opts UploadOptions) error {
	path := "/api/admin/blobs/" + url.PathEscape(key)
	if opts.NoOverwrite {
		path += "?no_overwrite=true"
	}
	_, err := c.do(ctx, http.MethodPut, path, bytes.NewReader(data), "application/pdf", nil)
	return err
}

func (c *HTTPClient) DeleteBlob(ctx context.Context, key string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/api/admin/blobs/"+url.PathEscape(key), nil, nil)
	return err
}

// PublicURL строится локально, без запроса к серверу.
func (c *HTTPClient) PublicURL(key string) string {
	return blob.PublicURL(c.publicURL, key)
}

func (c *HTTPClient) DispatchContact(ctx context.Context, msg ContactMessage) bool {
	var out struct {
		Success bool `json:"success"`
	}
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/contact", msg, &out); err != nil {
		c.logger.Warnw("contact dispatch failed", "error", err)
		return false
	}
	return out.Success
}
