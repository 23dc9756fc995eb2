package model

import "time"

// User — администратор бэк-офиса.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid"`
	Email    string `gorm:"not null;uniqueIndex"`
	Password string `gorm:"not null"` // bcrypt hash

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
