package store_test

import (
	"errors"
	"testing"
	"time"

	"money-ledger/domain"
	"money-ledger/store"
)

func TestInMemoryPriceStore(t *testing.T) {
	at := time.Date(2024, time.June, 3, 16, 0, 0, 0, time.UTC)
	ps := store.NewInMemoryPriceStore(domain.FixedClock(at))

	t.Run("GetNotFound", func(t *testing.T) {
		if _, found := ps.GetPrice("AAPL"); found {
			t.Errorf("Expected no quote before SetPrice")
		}
	})

	t.Run("SetAndGet", func(t *testing.T) {
		if err := ps.SetPrice("aapl", usd("165.00")); err != nil {
			t.Fatalf("SetPrice failed: %v", err)
		}
		q, found := ps.GetPrice("AAPL")
		if !found {
			t.Fatalf("Expected quote to be found")
		}
		if q.Symbol != "AAPL" || !q.Price.Equal(usd("165.00")) || !q.UpdatedAt.Equal(at) {
			t.Errorf("Unexpected quote: %+v", q)
		}
	})

	t.Run("PricesIsACopy", func(t *testing.T) {
		prices := ps.Prices()
		prices["AAPL"] = usd("1.00")
		q, _ := ps.GetPrice("AAPL")
		if !q.Price.Equal(usd("165.00")) {
			t.Errorf("Prices did not return a copy: %s", q.Price)
		}
		if len(ps.Quotes()) != 1 {
			t.Errorf("Expected 1 quote, got %d", len(ps.Quotes()))
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		if err := ps.SetPrice(" ", usd("1.00")); !errors.Is(err, domain.ErrInvalidSymbol) {
			t.Errorf("Expected ErrInvalidSymbol, got %v", err)
		}
		if err := ps.SetPrice("AAPL", usd("-1.00")); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("Expected ErrInvalidAmount, got %v", err)
		}
	})
}
