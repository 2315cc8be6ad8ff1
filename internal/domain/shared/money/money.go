package money

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrInvalidFactor    = errors.New("money: factor must be positive")
)

// Money keeps amounts in integer minor units (cents) to avoid floating point issues.
type Money struct {
	Amount   int64  `json:"amount" bson:"amount"`
	Currency string `json:"currency" bson:"currency"`
}

// New constructs a Money value validating minimal invariants.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Add adds two money values ensuring currencies match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Multiply multiplies the amount by an integer factor.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

// IsZero returns true if the amount equals zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, m.Currency)
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

// factorScale is the fixed-point denominator for Factor values: 10000 == x1.0.
const factorScale = 10000

// Factor is a fixed-point price multiplier stored in ten-thousandths.
// Factor(15000) scales by 1.5. Integer representation keeps per-night
// rate arithmetic exact; float64 is never involved.
type Factor int64

// FactorOne leaves an amount unchanged.
const FactorOne Factor = factorScale

// ParseFactor reads a decimal literal such as "1.5" or "0.85" into a Factor
// without going through floating point. At most four fraction digits are kept.
func ParseFactor(s string) (Factor, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrInvalidFactor
	}
	var value int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, ErrInvalidFactor
		}
		value = value*10 + int64(r-'0')
	}
	value *= factorScale
	scale := int64(factorScale / 10)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, ErrInvalidFactor
		}
		if scale > 0 {
			value += int64(r-'0') * scale
			scale /= 10
		}
	}
	f := Factor(value)
	if f <= 0 {
		return 0, ErrInvalidFactor
	}
	return f, nil
}

// MustFactor parses a factor literal and panics on failure.
func MustFactor(s string) Factor {
	f, err := ParseFactor(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Factor) Valid() bool {
	return f > 0
}

func (f Factor) String() string {
	whole := int64(f) / factorScale
	frac := int64(f) % factorScale
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%04d", whole, frac), "0")
}

// Scale applies a fixed-point factor to the amount, rounding half away from zero.
func (m Money) Scale(f Factor) Money {
	v := m.Amount * int64(f)
	half := int64(factorScale / 2)
	if v >= 0 {
		v = (v + half) / factorScale
	} else {
		v = (v - half) / factorScale
	}
	return Money{Amount: v, Currency: m.Currency}
}
