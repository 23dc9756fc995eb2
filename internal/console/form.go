package console

import (
	"CaseTrack/internal/format"
	"CaseTrack/internal/model"
	"CaseTrack/internal/money"
	"CaseTrack/internal/validate"
	"errors"
	"fmt"
	"strings"
)

// Form — редактируемая копия дела. Все значения строковые, null → "".
type Form struct {
	CaseID string `json:"-" validate:"-"`

	CaseNumber           string `json:"case_number" validate:"required"`
	Status               string `json:"status" validate:"required,case_status"`
	FullName             string `json:"full_name" validate:"required"`
	IDNumber             string `json:"id_number" validate:"required"`
	Email                string `json:"email" validate:"required"`
	PhoneNumber          string `json:"phone_number" validate:"required"`
	DateOfBirth          string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Country              string `json:"country" validate:"required"`
	TotalRetrievedAmount string `json:"total_retrieved_amount"`
	TransactionID        string `json:"transaction_id"`
	Platform             string `json:"platform"`
	PaymentRequired      string `json:"payment_required"`
}

// FormFields — имена полей в порядке отображения.
var FormFields = []string{
	"case_number", "status", "full_name", "id_number", "email", "phone_number",
	"date_of_birth", "country", "total_retrieved_amount", "transaction_id", "platform", "payment_required",
}

// NewForm возвращает пустую форму со значениями по умолчанию.
func NewForm() Form {
	return Form{
		Status:               string(model.StatusPending),
		TotalRetrievedAmount: "0",
		PaymentRequired:      "0",
	}
}

// EditForm заполняет форму из существующего дела.
func EditForm(c model.Case) Form {
	return Form{
		CaseID:               c.ID,
		CaseNumber:           c.CaseNumber,
		Status:               string(c.Status),
		FullName:             c.FullName,
		IDNumber:             c.IDNumber,
		Email:                c.Email,
		PhoneNumber:          c.PhoneNumber,
		DateOfBirth:          format.Deref(c.DateOfBirth),
		Country:              c.Country,
		TotalRetrievedAmount: c.TotalRetrievedAmount,
		TransactionID:        format.Deref(c.TransactionID),
		Platform:             format.Deref(c.Platform),
		PaymentRequired:      c.PaymentRequired,
	}
}

// IsNew — форма создания, а не редактирования.
func (f Form) IsNew() bool { return f.CaseID == "" }

// Get возвращает значение поля по имени.
func (f *Form) Get(field string) (string, error) {
	p, err := f.field(field)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set меняет поле по имени.
func (f *Form) Set(field, value string) error {
	p, err := f.field(field)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

func (f *Form) field(name string) (*string, error) {
	switch name {
	case "case_number":
		return &f.CaseNumber, nil
	case "status":
		return &f.Status, nil
	case "full_name":
		return &f.FullName, nil
	case "id_number":
		return &f.IDNumber, nil
	case "email":
		return &f.Email, nil
	case "phone_number":
		return &f.PhoneNumber, nil
	case "date_of_birth":
		return &f.DateOfBirth, nil
	case "country":
		return &f.Country, nil
	case "total_retrieved_amount":
		return &f.TotalRetrievedAmount, nil
	case "transaction_id":
		return &f.TransactionID, nil
	case "platform":
		return &f.Platform, nil
	case "payment_required":
		return &f.PaymentRequired, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
}

func (f Form) trimmed() Form {
	for _, name := range FormFields {
		p, _ := f.field(name)
		*p = strings.TrimSpace(*p)
	}
	return f
}

// Validate проверяет обязательные поля и статус.
func (f Form) Validate() error {
	err := validate.Struct(f.trimmed())
	if err == nil {
		return nil
	}
	var verr *validate.Error
	if !errors.As(err, &verr) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verr.Fields {
		out.Fields = append(out.Fields, fe.Field)
		out.Messages = append(out.Messages, fe.String())
	}
	return out
}

// Record строит запись для вставки: пустые необязательные поля → null, пустые суммы → "0".
func (f Form) Record() model.Case {
	t := f.trimmed()
	return model.Case{
		CaseNumber:           t.CaseNumber,
		Status:               model.Status(t.Status),
		FullName:             t.FullName,
		IDNumber:             t.IDNumber,
		Email:                t.Email,
		PhoneNumber:          t.PhoneNumber,
		DateOfBirth:          nilIfBlank(t.DateOfBirth),
		Country:              t.Country,
		TotalRetrievedAmount: money.Normalize(t.TotalRetrievedAmount),
		TransactionID:        nilIfBlank(t.TransactionID),
		Platform:             nilIfBlank(t.Platform),
		PaymentRequired:      money.Normalize(t.PaymentRequired),
	}
}

// Patch — частичное обновление со всеми полями формы. Вложение не затрагивается.
func (f Form) Patch() map[string]any {
	r := f.Record()
	return map[string]any{
		"case_number":            r.CaseNumber,
		"status":                 string(r.Status),
		"full_name":              r.FullName,
		"id_number":              r.IDNumber,
		"email":                  r.Email,
		"phone_number":           r.PhoneNumber,
		"date_of_birth":          nullable(r.DateOfBirth),
		"country":                r.Country,
		"total_retrieved_amount": r.TotalRetrievedAmount,
		"transaction_id":         nullable(r.TransactionID),
		"platform":               nullable(r.Platform),
		"payment_required":       r.PaymentRequired,
	}
}

func nilIfBlank(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullable превращает nil-указатель в нетипизированный nil для JSON null.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
