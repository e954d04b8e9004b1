package domain_test

import (
	"time"

	"github.com/shopspring/decimal"

	"money-ledger/domain"
	"money-ledger/shared"
)

// Helper to create decimals in tests, panics on error
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func usd(s string) domain.Money {
	return domain.MustParseMoney(s, string(shared.USD))
}

func eur(s string) domain.Money {
	return domain.MustParseMoney(s, string(shared.EUR))
}

var testTime = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

// steppingClock advances by one minute on every call.
func steppingClock(start time.Time) domain.Clock {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}
