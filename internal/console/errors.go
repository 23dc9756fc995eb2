package console

import (
	"errors"
	"strings"
)

var (
	ErrNoForm            = errors.New("no open form")
	ErrSaveInProgress    = errors.New("save already in progress")
	ErrUploadInProgress  = errors.New("upload already in progress for this case")
	ErrNoPendingDelete   = errors.New("nothing to confirm")
	ErrUnknownCase       = errors.New("case is not in the list")
	ErrUnknownSubmission = errors.New("submission is not in the list")
	ErrUnknownField      = errors.New("unknown field")
	ErrNotPDF            = errors.New("only PDF files are allowed")
	// ErrClosed: результат пришёл после Close и отброшен.
	ErrClosed = errors.New("console closed")
)

// ValidationError перечисляет незаполненные и неверные поля формы.
// До сети такая ошибка не доходит.
type ValidationError struct {
	Fields   []string
	Messages []string
}

func (e *ValidationError) Error() string {
	return "please fill in all required fields: " + strings.Join(e.Messages, "; ")
}

// Has сообщает, есть ли ошибка по полю.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}
