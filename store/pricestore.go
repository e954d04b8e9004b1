package store

import (
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"money-ledger/domain"
)

// PriceStore is the quote board portfolio valuations read from.
type PriceStore interface {
	SetPrice(symbol string, price domain.Money) error

	GetPrice(symbol string) (quote Quote, found bool)

	Prices() map[string]domain.Money
}

type Quote struct {
	Symbol    string
	Price     domain.Money
	UpdatedAt time.Time
}

type InMemoryPriceStore struct {
	sync.RWMutex
	quotes map[string]Quote
	clock  domain.Clock
}

func NewInMemoryPriceStore(clock domain.Clock) *InMemoryPriceStore {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &InMemoryPriceStore{
		quotes: make(map[string]Quote),
		clock:  clock,
	}
}

func (s *InMemoryPriceStore) SetPrice(symbol string, price domain.Money) error {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return fmt.Errorf("%w: symbol must not be empty", domain.ErrInvalidSymbol)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price for %s cannot be negative: %s", domain.ErrInvalidAmount, sym, price)
	}
	s.Lock()
	defer s.Unlock()

	s.quotes[sym] = Quote{Symbol: sym, Price: price, UpdatedAt: s.clock()}
	return nil
}

func (s *InMemoryPriceStore) GetPrice(symbol string) (Quote, bool) {
	s.RLock()
	defer s.RUnlock()

	q, ok := s.quotes[strings.ToUpper(strings.TrimSpace(symbol))]
	return q, ok
}

// Prices returns a copy of the board as a symbol to price map.
func (s *InMemoryPriceStore) Prices() map[string]domain.Money {
	s.RLock()
	defer s.RUnlock()

	prices := make(map[string]domain.Money, len(s.quotes))
	for sym, q := range s.quotes {
		prices[sym] = q.Price
	}
	return prices
}

// Quotes returns a copy of the board including update times.
func (s *InMemoryPriceStore) Quotes() map[string]Quote {
	s.RLock()
	defer s.RUnlock()
	return maps.Clone(s.quotes)
}
