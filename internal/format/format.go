// Package format renders prices and timestamps the way the storefront
// shows them to Russian-locale users. Presentation only; ledger logic
// never formats money.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// nbsp separates digit groups, matching ru-RU number formatting.
const nbsp = " "

var ruMonths = [12]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// Price renders a ruble amount with no kopecks: "1 050 ₽". Fractional
// amounts round half-up, matching how whole-ruble menus display.
func Price(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	digits := v.Round(0).BigInt().String()
	return sign + groupDigits(digits) + nbsp + "₽"
}

// Date renders a timestamp like "2 сентября 2026 г., 15:04".
func Date(t time.Time) string {
	return fmt.Sprintf("%d %s %d г., %02d:%02d",
		t.Day(), ruMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return strings.Join(groups, nbsp)
}
