package money

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the Central African CFA franc.
const DefaultCurrency = "XAF"

var ErrInvalidCurrency = errors.New("money: invalid currency code")

// Money keeps amounts in whole currency units; XAF has no minor unit.
type Money struct {
	Amount   int64
	Currency string
}

// New constructs Money, defaulting the currency to XAF.
func New(amount int64, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: currency}, nil
}

var frenchPrinter = message.NewPrinter(language.French)

// Format renders the amount with French digit grouping. XAF is shown as FCFA.
func (m Money) Format() string {
	digits := frenchPrinter.Sprintf("%d", m.Amount)
	currency := strings.ToUpper(m.Currency)
	if currency == "" || currency == DefaultCurrency {
		return digits + " FCFA"
	}
	return digits + " " + currency
}

// FormatXAF is a shorthand for formatting a plain XAF amount.
func FormatXAF(amount int64) string {
	return Money{Amount: amount, Currency: DefaultCurrency}.Format()
}
