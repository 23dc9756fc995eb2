package service

import "errors"

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrConflict — нарушение уникальности (номер дела, ключ вложения).
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials — неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
