package service

import (
	"CaseTrack/internal/model"
	"CaseTrack/internal/money"
	"CaseTrack/internal/repo"
	"CaseTrack/internal/validate"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CaseService инкапсулирует правила работы с делами.
type CaseService struct {
	repo   repo.CaseRepository
	logger *zap.SugaredLogger
}

func NewCaseService(r repo.CaseRepository, logger *zap.SugaredLogger) *CaseService {
	return &CaseService{repo: r, logger: logger}
}

// CaseInput — данные для создания дела.
type CaseInput struct {
	CaseNumber           string       `json:"case_number" validate:"required,max=64"`
	Status               model.Status `json:"status" validate:"required,case_status"`
	FullName             string       `json:"full_name" validate:"required"`
	IDNumber             string       `json:"id_number" validate:"required"`
	Email                string       `json:"email" validate:"required"`
	PhoneNumber          string       `json:"phone_number" validate:"required"`
	DateOfBirth          *string      `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Country              string       `json:"country" validate:"required"`
	TotalRetrievedAmount string       `json:"total_retrieved_amount"`
	TransactionID        *string      `json:"transaction_id"`
	Platform             *string      `json:"platform"`
	PaymentRequired      string       `json:"payment_required"`
}

func (in *CaseInput) normalize() {
	in.CaseNumber = strings.TrimSpace(in.CaseNumber)
	in.Status = model.Status(strings.TrimSpace(string(in.Status)))
	in.FullName = strings.TrimSpace(in.FullName)
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Country = strings.TrimSpace(in.Country)
	in.DateOfBirth = blankToNil(in.DateOfBirth)
	in.TransactionID = blankToNil(in.TransactionID)
	in.Platform = blankToNil(in.Platform)
	in.TotalRetrievedAmount = money.Normalize(in.TotalRetrievedAmount)
	in.PaymentRequired = money.Normalize(in.PaymentRequired)
}

// List возвращает все дела, новые сверху.
func (s *CaseService) List(ctx context.Context) ([]model.Case, error) {
	return s.repo.ListCases(ctx)
}

// FindByCaseNumber — точное совпадение номера; ErrNotFound, если записи нет.
func (s *CaseService) FindByCaseNumber(ctx context.Context, caseNumber string) (*model.Case, error) {
	c, err := s.repo.GetByCaseNumber(ctx, caseNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

// Get возвращает дело по id.
func (s *CaseService) Get(ctx context.Context, id string) (*model.Case, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

// Insert создаёт дело. id и временные метки назначаются сервером.
func (s *CaseService) Insert(ctx context.Context, in CaseInput) (*model.Case, error) {
	in.normalize()
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c := &model.Case{
		ID:                   uuid.NewString(),
		CaseNumber:           in.CaseNumber,
		Status:               in.Status,
		FullName:             in.FullName,
		IDNumber:             in.IDNumber,
		Email:                in.Email,
		PhoneNumber:          in.PhoneNumber,
		DateOfBirth:          in.DateOfBirth,
		Country:              in.Country,
		TotalRetrievedAmount: in.TotalRetrievedAmount,
		TransactionID:        in.TransactionID,
		Platform:             in.Platform,
		PaymentRequired:      in.PaymentRequired,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: case number %q already exists", ErrConflict, in.CaseNumber)
		}
		return nil, err
	}
	s.logger.Infow("case created", "case_id", c.ID, "case_number", c.CaseNumber)
	return c, nil
}

// Update применяет частичное обновление одним запросом (last writer wins).
// Тройка вложения принимается только целиком.
func (s *CaseService) Update(ctx context.Context, id string, raw map[string]any) error {
	updates, err := NormalizePatch(raw)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return validate.Fields(validate.FieldError{Field: "patch", Rule: "required"})
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrNotFound
		case errors.Is(err, repo.ErrDuplicate):
			return fmt.Errorf("%w: case number %v already exists", ErrConflict, updates["case_number"])
		}
		return err
	}
	s.logger.Infow("case updated", "case_id", id, "fields", len(updates))
	return nil
}

// Delete удаляет запись дела. Вложение удаляет вызывающая сторона.
func (s *CaseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Infow("case deleted", "case_id", id)
	return nil
}

var (
	requiredColumns = map[string]bool{
		"case_number": true, "full_name": true, "id_number": true,
		"email": true, "phone_number": true, "country": true,
	}
	amountColumns   = map[string]bool{"total_retrieved_amount": true, "payment_required": true}
	nullableColumns = map[string]bool{"date_of_birth": true, "transaction_id": true, "platform": true}
	readOnlyColumns = map[string]bool{"id": true, "created_at": true, "updated_at": true}
)

// NormalizePatch проверяет и приводит частичное обновление к значениям колонок.
func NormalizePatch(raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	var bad []validate.FieldError
	attachment := 0
	attachmentNil := 0

	for key, v := range raw {
		switch {
		case readOnlyColumns[key]:
			bad = append(bad, validate.FieldError{Field: key, Rule: "readonly"})
		case key == "status":
			str, ok := asString(v)
			if !ok || !model.Status(strings.TrimSpace(str)).Valid() {
				bad = append(bad, validate.FieldError{Field: key, Rule: "case_status"})
				continue
			}
			out[key] = strings.TrimSpace(str)
		case requiredColumns[key]:
			str, ok := asString(v)
			if !ok || strings.TrimSpace(str) == "" {
				bad = append(bad, validate.FieldError{Field: key, Rule: "required"})
				continue
			}
			out[key] = strings.TrimSpace(str)
		case amountColumns[key]:
			str, ok := asString(v)
			if !ok && v != nil {
				bad = append(bad, validate.FieldError{Field: key, Rule: "invalid"})
				continue
			}
			out[key] = money.Normalize(str)
		case nullableColumns[key]:
			str, ok := asString(v)
			if v != nil && !ok {
				bad = append(bad, validate.FieldError{Field: key, Rule: "invalid"})
				continue
			}
			str = strings.TrimSpace(str)
			if str == "" {
				out[key] = nil
				continue
			}
			if key == "date_of_birth" {
				if _, err := time.Parse("2006-01-02", str); err != nil {
					bad = append(bad, validate.FieldError{Field: key, Rule: "datetime"})
					continue
				}
			}
			out[key] = str
		case key == "pdf_file_name" || key == "pdf_file_url":
			attachment++
			if v == nil {
				attachmentNil++
				out[key] = nil
				continue
			}
			str, ok := asString(v)
			if !ok || strings.TrimSpace(str) == "" {
				bad = append(bad, validate.FieldError{Field: key, Rule: "required"})
				continue
			}
			out[key] = strings.TrimSpace(str)
		case key == "pdf_uploaded_at":
			attachment++
			if v == nil {
				attachmentNil++
				out[key] = nil
				continue
			}
			ts, ok := asTime(v)
			if !ok {
				bad = append(bad, validate.FieldError{Field: key, Rule: "datetime"})
				continue
			}
			out[key] = ts.UTC()
		default:
			bad = append(bad, validate.FieldError{Field: key, Rule: "unknown"})
		}
	}

	if attachment != 0 && attachment != len(model.AttachmentColumns) {
		bad = append(bad, validate.FieldError{Field: "attachment", Rule: "triple"})
	} else if attachmentNil != 0 && attachmentNil != len(model.AttachmentColumns) {
		bad = append(bad, validate.FieldError{Field: "attachment", Rule: "triple"})
	}
	if err := validate.Fields(bad...); err != nil {
		return nil, err
	}
	return out, nil
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case float64:
		// старые клиенты присылают суммы числом
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case nil:
		return "", false
	}
	return "", false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		return ts, err == nil
	}
	return time.Time{}, false
}

func blankToNil(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
