// Package lookup — публичный путь чтения: номер дела → дело.
package lookup

import (
	"CaseTrack/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound — дела с таким номером нет (или номер пустой).
var ErrNotFound = errors.New("case not found")

// Finder ищет дело по точному номеру. Отсутствие записи: (nil, nil).
type Finder interface {
	FindCaseByNumber(ctx context.Context, caseNumber string) (*model.Case, error)
}

// FinderFunc позволяет использовать функцию как Finder.
type FinderFunc func(ctx context.Context, caseNumber string) (*model.Case, error)

func (f FinderFunc) FindCaseByNumber(ctx context.Context, caseNumber string) (*model.Case, error) {
	return f(ctx, caseNumber)
}

type Service struct {
	finder Finder
	logger *zap.SugaredLogger
}

func NewService(f Finder, logger *zap.SugaredLogger) *Service {
	return &Service{finder: f, logger: logger}
}

// FindByCaseNumber возвращает дело, ErrNotFound или обёрнутую ошибку хранилища.
// Пустой номер до хранилища не доходит. Повторов нет.
func (s *Service) FindByCaseNumber(ctx context.Context, caseNumber string) (*model.Case, error) {
	caseNumber = strings.TrimSpace(caseNumber)
	if caseNumber == "" {
		return nil, ErrNotFound
	}
	c, err := s.finder.FindCaseByNumber(ctx, caseNumber)
	if err != nil {
		s.logger.Errorw("case lookup failed", "case_number", caseNumber, "error", err)
		return nil, fmt.Errorf("lookup %q: %w", caseNumber, err)
	}
	if c == nil {
		s.logger.Infow("case not found", "case_number", caseNumber)
		return nil, ErrNotFound
	}
	return c, nil
}
