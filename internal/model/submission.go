package model

import "time"

// ContactSubmission — обращение, отправленное через публичную форму.
// Содержимое неизменяемо, меняется только флаг прочтения.
type ContactSubmission struct {
	ID      string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name    string  `gorm:"not null" json:"name"`
	Email   string  `gorm:"not null" json:"email"`
	Phone   *string `json:"phone"`
	Subject string  `gorm:"not null" json:"subject"`
	Message string  `gorm:"type:text;not null" json:"message"`
	IsRead  bool    `gorm:"not null;default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
