// Package money работает с денежными полями дела, которые хранятся строками
// в свободном формате ("1500", "$1,234.56", "по запросу").
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse пытается прочитать сумму. Допускаются пробелы, символ "$" и
// разделители тысяч. ok=false означает, что строку надо показывать как есть.
func Parse(s string) (decimal.Decimal, bool) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatUSD форматирует сумму как "$1,234.56". Нечисловые значения
// возвращаются без изменений.
func FormatUSD(s string) string {
	d, ok := Parse(s)
	if !ok {
		return s
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(intPart) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Normalize возвращает "0" для пустого значения, иначе строку без пробелов по краям.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	return s
}
