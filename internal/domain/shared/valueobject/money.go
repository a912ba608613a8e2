package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	TRY Currency = "TRY" // Turkish Lira (default)
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// DefaultCurrency is the default currency for listing prices
const DefaultCurrency = TRY

var currencySymbols = map[Currency]string{
	TRY: "TL",
	USD: "$",
	EUR: "€",
	GBP: "£",
}

// IsValid reports whether the currency is one the platform prices listings in
func (c Currency) IsValid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the display symbol for the currency
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c)
}

// ParseCurrency parses a currency code, defaulting empty input to TRY
func ParseCurrency(s string) (Currency, error) {
	if s == "" {
		return DefaultCurrency, nil
	}
	c := Currency(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency: %s", s)
	}
	return c, nil
}

// Money is a value object representing a listing price.
// It is immutable.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("unsupported currency: %q", currency)
	}
	if amount.IsNegative() {
		return Money{}, errors.New("amount cannot be negative")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// MustNewMoney is NewMoney for literals known to be valid
func MustNewMoney(amount int64, currency Currency) Money {
	m, err := NewMoney(decimal.NewFromInt(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equals compares amount and currency
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns "amount currency"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}

// Display renders the amount with Turkish digit grouping and the currency symbol,
// e.g. "1.250.000 TL". Fractional parts are dropped.
func (m Money) Display() string {
	p := message.NewPrinter(language.Turkish)
	return p.Sprintf("%d %s", m.amount.Truncate(0).IntPart(), m.currency.Symbol())
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoneyFromString(v.Amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
