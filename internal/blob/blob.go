// Package blob хранит PDF-вложения дел: в локальном каталоге или в S3/MinIO.
package blob

import (
	"context"
	"errors"
	"io"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrExists     = errors.New("blob already exists")
	ErrInvalidKey = errors.New("invalid blob key")
)

// PutOptions — параметры загрузки.
type PutOptions struct {
	ContentType string
	// NoOverwrite: если ключ занят, загрузка завершается ErrExists.
	NoOverwrite bool
}

// Store — минимальный контракт хранилища вложений.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, opts PutOptions) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete не считает отсутствие ключа ошибкой.
	Delete(ctx context.Context, key string) error
}

var keyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,254}$`)

// ValidateKey допускает только плоские имена без каталогов.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

// PublicURL строит постоянную публичную ссылку на вложение.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/files/" + url.PathEscape(key)
}

// KeyFromURL достаёт ключ из последнего сегмента публичной ссылки.
func KeyFromURL(u string) string {
	u = strings.TrimRight(u, "/")
	i := strings.LastIndex(u, "/")
	if i < 0 {
		return ""
	}
	key, err := url.PathUnescape(u[i+1:])
	if err != nil {
		return ""
	}
	return key
}
