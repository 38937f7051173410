package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money renders whole-unit amounts with a currency glyph prefix and locale-grouped digits.
// Example: NewMoney("₹", "en-IN").Format(12999) => "₹12,999"
type Money struct {
	Symbol  string
	printer *message.Printer
}

// NewMoney builds a formatter for the given glyph and BCP 47 locale. Unknown locales
// fall back to English grouping.
func NewMoney(symbol, locale string) Money {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.English
	}
	return Money{Symbol: symbol, printer: message.NewPrinter(tag)}
}

// Format renders amount, e.g. "₹2,999" or "-₹250".
func (m Money) Format(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + m.Symbol + m.Digits(amount)
}

// Digits renders amount with grouping separators and no glyph.
func (m Money) Digits(amount int64) string {
	if m.printer == nil {
		return thousandSep(amount)
	}
	return m.printer.Sprint(number.Decimal(amount))
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
