package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile — файловое хранилище токена сессии консоли.
type TokenFile struct {
	Path string
}

// Save сохраняет токен, создавая каталог при необходимости.
func (s TokenFile) Save(token string) error {
	if s.Path == "" {
		return errors.New("token file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

// Load читает токен из файла.
func (s TokenFile) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	tok := strings.TrimRight(string(b), " \t\r\n")
	if tok == "" {
		return "", errors.New("empty token file")
	}
	return tok, nil
}

// Clear удаляет файл токена. Отсутствие файла не ошибка.
func (s TokenFile) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
