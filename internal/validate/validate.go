// Package validate настраивает go-playground/validator для моделей CaseTrack
// и переводит ошибки валидации в список полей.
package validate

import (
	"CaseTrack/internal/model"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Get возвращает общий экземпляр валидатора с зарегистрированными правилами.
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// имена полей в ошибках берутся из json-тегов
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("case_status", func(fl validator.FieldLevel) bool {
			return model.Status(fl.Field().String()).Valid()
		})
		instance = v
	})
	return instance
}

// FieldError описывает одно нарушенное правило.
type FieldError struct {
	Field string
	Rule  string
}

func (f FieldError) String() string {
	switch f.Rule {
	case "required":
		return f.Field + " is required"
	case "case_status":
		return f.Field + " must be one of " + statusList()
	case "email":
		return f.Field + " must be a valid email"
	case "datetime":
		return f.Field + " must be a date (YYYY-MM-DD)"
	case "max":
		return f.Field + " is too long"
	case "triple":
		return "pdf_file_name, pdf_file_url and pdf_uploaded_at must be set or cleared together"
	case "readonly":
		return f.Field + " is read-only"
	case "unknown":
		return f.Field + " is not an updatable field"
	}
	return f.Field + " is invalid"
}

// Error — ошибка валидации со списком полей. Никогда не уходит в сеть.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has сообщает, есть ли ошибка по полю.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Struct валидирует структуру и возвращает *Error либо nil.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	sort.SliceStable(out.Fields, func(i, j int) bool { return out.Fields[i].Field < out.Fields[j].Field })
	return out
}

// Fields строит *Error из готового списка (для проверок вне тегов).
func Fields(fields ...FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Fields: fields}
}

func statusList() string {
	names := make([]string, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
