package model

import (
	"time"
)

// Status — статус дела. Допустимые значения перечислены в Statuses.
type Status string

const (
	StatusActive   Status = "Active"
	StatusBlocked  Status = "Blocked"
	StatusPending  Status = "Pending"
	StatusOnHold   Status = "On Hold"
	StatusReceived Status = "Received"
)

// Statuses в порядке отображения в формах.
var Statuses = []Status{StatusActive, StatusBlocked, StatusPending, StatusOnHold, StatusReceived}

// Valid проверяет принадлежность перечислению (с учётом регистра).
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Case — серверная модель дела.
type Case struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	CaseNumber string `gorm:"not null;uniqueIndex" json:"case_number"`
	Status     Status `gorm:"not null;default:Pending" json:"status"`

	FullName    string  `gorm:"not null" json:"full_name"`
	IDNumber    string  `gorm:"not null" json:"id_number"`
	Email       string  `gorm:"not null" json:"email"`
	PhoneNumber string  `gorm:"not null" json:"phone_number"`
	DateOfBirth *string `json:"date_of_birth"` // YYYY-MM-DD
	Country     string  `gorm:"not null" json:"country"`

	// Денежные поля хранятся как строки для отображения, см. пакет money.
	TotalRetrievedAmount string  `gorm:"not null;default:'0'" json:"total_retrieved_amount"`
	TransactionID        *string `json:"transaction_id"`
	Platform             *string `json:"platform"`
	PaymentRequired      string  `gorm:"not null;default:'0'" json:"payment_required"`

	// Вложение: три поля заполняются и очищаются только вместе.
	PDFFileName   *string    `gorm:"column:pdf_file_name" json:"pdf_file_name"`
	PDFFileURL    *string    `gorm:"column:pdf_file_url" json:"pdf_file_url"`
	PDFUploadedAt *time.Time `gorm:"column:pdf_uploaded_at" json:"pdf_uploaded_at"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasAttachment сообщает, прикреплён ли к делу PDF.
func (c *Case) HasAttachment() bool {
	return c.PDFFileURL != nil && *c.PDFFileURL != ""
}

// Attachment — тройка полей вложения.
type Attachment struct {
	FileName   string
	FileURL    string
	UploadedAt time.Time
}

// Patch возвращает частичное обновление, устанавливающее всю тройку разом.
func (a Attachment) Patch() map[string]any {
	return map[string]any{
		"pdf_file_name":   a.FileName,
		"pdf_file_url":    a.FileURL,
		"pdf_uploaded_at": a.UploadedAt.UTC(),
	}
}

// AttachmentColumns — колонки тройки вложения.
var AttachmentColumns = []string{"pdf_file_name", "pdf_file_url", "pdf_uploaded_at"}
