package repo

import (
	"CaseTrack/internal/model"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// ErrDuplicate возвращается при нарушении уникальности (case_number, email администратора).
var ErrDuplicate = errors.New("duplicate key")

// InitDB открывает БД: PostgreSQL для postgres:// DSN, иначе SQLite-файл (modernc).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if isPostgresDSN(dsn) {
		dial = postgres.Open(dsn)
	} else {
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}
	db, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// newGormLogger пишет медленные запросы и ошибки. Отсутствие записи для
// поиска по номеру дела обычный исход и в лог не попадает.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate создаёт/обновляет схему для всех моделей.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Case{}, &model.ContactSubmission{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// translate приводит ошибки драйверов к ошибкам пакета.
// modernc-драйвер не переводится gorm'ом, поэтому проверяем и текст.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
