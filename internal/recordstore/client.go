// Package recordstore — типизированный контракт к бэкенду CaseTrack:
// дела, обращения, вложения, сессия администратора и отправка сообщений.
package recordstore

import (
	"CaseTrack/internal/model"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("record conflict")
	ErrUnauthorized = errors.New("not authenticated")
)

// BackendError несёт текст ошибки, который вернул сервер.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// Is сопоставляет статус ответа с sentinel-ошибками пакета.
func (e *BackendError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// Message возвращает текст ошибки сервера или fallback для прочих сбоев.
func Message(err error, fallback string) string {
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

// Session — активная сессия администратора.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ContactMessage — сообщение с публичной формы.
type ContactMessage struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Subject string  `json:"subject"`
	Message string  `json:"message"`
}

// UploadOptions — параметры загрузки вложения.
type UploadOptions struct {
	NoOverwrite bool
}

// Client — контракт хранилища записей.
type Client interface {
	StartSession(ctx context.Context, identifier, secret string) (*Session, error)
	EndSession(ctx context.Context) error
	// CurrentSession возвращает (nil, nil), если сессии нет.
	CurrentSession(ctx context.Context) (*Session, error)
	// SubscribeSession вызывает fn при каждом входе, выходе и потере сессии.
	SubscribeSession(fn func(*Session)) (unsubscribe func())

	ListCases(ctx context.Context) ([]model.Case, error)
	// FindCaseByNumber возвращает (nil, nil), если записи нет.
	FindCaseByNumber(ctx context.Context, caseNumber string) (*model.Case, error)
	InsertCase(ctx context.Context, c model.Case) (*model.Case, error)
	UpdateCase(ctx context.Context, id string, patch map[string]any) error
	DeleteCase(ctx context.Context, id string) error

	ListSubmissions(ctx context.Context) ([]model.ContactSubmission, error)
	MarkSubmissionRead(ctx context.Context, id string) error
	DeleteSubmission(ctx context.Context, id string) error

	UploadBlob(ctx context.Context, key string, data []byte, opts UploadOptions) error
	DeleteBlob(ctx context.Context, key string) error
	PublicURL(key string) string

	DispatchContact(ctx context.Context, msg ContactMessage) bool
}

// TokenStore хранит токен сессии между запусками консоли.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}
