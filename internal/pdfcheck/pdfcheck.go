// Package pdfcheck проверяет, что загружаемый файл действительно PDF.
package pdfcheck

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

const (
	ContentTypePDF = "application/pdf"
	ExtensionPDF   = ".pdf"
)

var (
	ErrNotPDF     = errors.New("only PDF files are allowed")
	ErrUnreadable = errors.New("pdf is damaged or unreadable")
)

var magic = []byte("%PDF-")

// HasPDFExtension проверяет расширение имени файла без учёта регистра.
func HasPDFExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ExtensionPDF)
}

// Sniff проверяет сигнатуру %PDF- в начале данных.
func Sniff(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Validate проверяет сигнатуру и структуру документа. Возвращает число страниц.
func Validate(data []byte) (pages int, err error) {
	if !Sniff(data) {
		return 0, ErrNotPDF
	}
	// парсер паникует на части повреждённых файлов
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	pages = doc.NumPage()
	if pages < 1 {
		return 0, ErrUnreadable
	}
	return pages, nil
}
