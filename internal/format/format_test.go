package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		value decimal.Decimal
		want  string
	}{
		{decimal.NewFromInt(0), "0 ₽"},
		{decimal.NewFromInt(850), "850 ₽"},
		{decimal.NewFromInt(1050), "1 050 ₽"},
		{decimal.NewFromInt(1234567), "1 234 567 ₽"},
		{decimal.NewFromFloat(299.5), "300 ₽"},
		{decimal.NewFromInt(-200), "-200 ₽"},
	}

	for _, tt := range tests {
		if got := Price(tt.value); got != tt.want {
			t.Errorf("Price(%s) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2026, time.September, 2, 15, 4, 0, 0, time.UTC)
	if got := Date(ts); got != "2 сентября 2026 г., 15:04" {
		t.Errorf("Date = %q", got)
	}

	ts = time.Date(2026, time.January, 31, 9, 5, 0, 0, time.UTC)
	if got := Date(ts); got != "31 января 2026 г., 09:05" {
		t.Errorf("Date = %q", got)
	}
}
