package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidAccountType = errors.New("invalid account type")
)

// Currency is an uppercase ISO-style currency code of three or four letters.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// ParseCurrency normalises code to upper case and checks its shape.
func ParseCurrency(code string) (Currency, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) < 3 || len(c) > 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
		}
	}
	return Currency(c), nil
}

func (c Currency) String() string {
	return string(c)
}

type AccountType string

const (
	Checking    AccountType = "checking"
	Savings     AccountType = "savings"
	MoneyMarket AccountType = "money_market"
	Investment  AccountType = "investment"
)

func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(s))); t {
	case Checking, Savings, MoneyMarket, Investment:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: checking, savings, money_market, investment)", ErrInvalidAccountType, s)
	}
}

// AccruesInterest reports whether CalculateInterest yields a non-zero amount
// for this account type.
func (t AccountType) AccruesInterest() bool {
	return t == Savings || t == MoneyMarket
}
