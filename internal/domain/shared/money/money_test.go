package money

import (
	"strings"
	"testing"
	"unicode"
)

func TestNewDefaultsCurrency(t *testing.T) {
	m, err := New(85000, "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if m.Currency != DefaultCurrency {
		t.Fatalf("expected XAF, got %q", m.Currency)
	}
	if _, err := New(1, "EURO"); err == nil {
		t.Fatalf("expected invalid currency error")
	}
}

func TestFormatXAF(t *testing.T) {
	label := FormatXAF(85000)
	if !strings.HasSuffix(label, " FCFA") {
		t.Fatalf("expected FCFA suffix, got %q", label)
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, label)
	if digits != "85000" {
		t.Fatalf("unexpected digits in %q", label)
	}
	if strings.HasPrefix(label, "85000") {
		t.Fatalf("expected grouping separator in %q", label)
	}
}

func TestFormatOtherCurrency(t *testing.T) {
	m := Money{Amount: 12, Currency: "eur"}
	if got := m.Format(); got != "12 EUR" {
		t.Fatalf("unexpected label %q", got)
	}
}
