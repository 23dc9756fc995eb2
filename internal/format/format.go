// Package format содержит общие правила отображения полей дела
// для HTML-страниц и консоли.
package format

import (
	"strings"
	"time"
)

// DisplayDate — формат дат на страницах и в консоли.
const DisplayDate = "January 2, 2006"

// NA показывается вместо пустых необязательных полей.
const NA = "N/A"

// OrNA возвращает значение или "N/A" для nil и пустой строки.
func OrNA(p *string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return NA
	}
	return *p
}

func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Date: YYYY-MM-DD → "January 2, 2006"; нераспознанное значение как есть.
func Date(p *string) string {
	if p == nil || *p == "" {
		return NA
	}
	t, err := time.Parse("2006-01-02", *p)
	if err != nil {
		return *p
	}
	return t.Format(DisplayDate)
}

// Time форматирует момент времени как дату.
func Time(t *time.Time) string {
	if t == nil {
		return NA
	}
	return t.Format(DisplayDate)
}
