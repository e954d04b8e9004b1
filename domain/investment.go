package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"money-ledger/shared"
)

// InvestmentBalance is a cash balance plus a holdings ledger with a
// weighted-average cost basis per symbol. A symbol has a cost basis exactly
// when it is held, and held quantities are always positive.
type InvestmentBalance struct {
	Balance
	holdings  map[string]int64
	costBasis map[string]Money
}

func NewInvestmentBalance(amount Money, opts ...Option) InvestmentBalance {
	return InvestmentBalance{
		Balance:   NewBalance(amount, shared.Investment, opts...),
		holdings:  make(map[string]int64),
		costBasis: make(map[string]Money),
	}
}

// WithBase keeps the holdings ledger alongside a new base snapshot. The maps
// are copied so the receiver stays untouched by later changes to the result.
func (ib InvestmentBalance) WithBase(base Balance) InvestmentBalance {
	next := InvestmentBalance{
		Balance:   base,
		holdings:  maps.Clone(ib.holdings),
		costBasis: maps.Clone(ib.costBasis),
	}
	if next.holdings == nil {
		next.holdings = make(map[string]int64)
	}
	if next.costBasis == nil {
		next.costBasis = make(map[string]Money)
	}
	return next
}

func (ib InvestmentBalance) Deposit(amount Money, description string) (InvestmentBalance, error) {
	return Deposit(ib, amount, description)
}

func (ib InvestmentBalance) Withdraw(amount Money, description string) (InvestmentBalance, error) {
	return Withdraw(ib, amount, description)
}

func (ib InvestmentBalance) TransferTo(target Balance, amount Money, description string) (InvestmentBalance, Balance, error) {
	return Transfer(ib, target, amount, description)
}

func (ib InvestmentBalance) Holdings() map[string]int64 {
	return maps.Clone(ib.holdings)
}

func (ib InvestmentBalance) CostBasis() map[string]Money {
	return maps.Clone(ib.costBasis)
}

func (ib InvestmentBalance) Quantity(symbol string) int64 {
	return ib.holdings[strings.ToUpper(strings.TrimSpace(symbol))]
}

func (ib InvestmentBalance) AverageCost(symbol string) (Money, bool) {
	m, ok := ib.costBasis[strings.ToUpper(strings.TrimSpace(symbol))]
	return m, ok
}

// Symbols returns the held symbols in sorted order.
func (ib InvestmentBalance) Symbols() []string {
	var symbols []string
	for sym := range ib.holdings {
		symbols = append(symbols, sym)
	}
	slices.Sort(symbols)
	return symbols
}

// BuyStock pays for quantity shares out of cash and folds the purchase into
// the symbol's average cost.
func (ib InvestmentBalance) BuyStock(symbol string, quantity int64, pricePerShare Money) (InvestmentBalance, error) {
	sym, err := checkOrder(symbol, quantity)
	if err != nil {
		return InvestmentBalance{}, err
	}
	totalCost := pricePerShare.MulInt(quantity)
	over, err := totalCost.GreaterThan(ib.amount)
	if err != nil {
		return InvestmentBalance{}, err
	}
	if over {
		return InvestmentBalance{}, fmt.Errorf("%w: buying %d %s costs %s, available %s",
			ErrInsufficientFunds, quantity, sym, totalCost, ib.amount)
	}

	next, err := Withdraw(ib, totalCost, fmt.Sprintf("Buy %d shares of %s", quantity, sym))
	if err != nil {
		return InvestmentBalance{}, err
	}

	oldQty, held := next.holdings[sym]
	if !held {
		next.holdings[sym] = quantity
		next.costBasis[sym] = pricePerShare
		return next, nil
	}

	totalShares := oldQty + quantity
	basis, err := next.costBasis[sym].MulInt(oldQty).Add(totalCost)
	if err != nil {
		return InvestmentBalance{}, err
	}
	avg, err := basis.Div(totalShares)
	if err != nil {
		return InvestmentBalance{}, err
	}
	next.holdings[sym] = totalShares
	next.costBasis[sym] = avg
	return next, nil
}

// SellStock credits the proceeds of quantity shares and records the realised
// gain or loss against the pre-sale average cost on the new transaction.
func (ib InvestmentBalance) SellStock(symbol string, quantity int64, pricePerShare Money) (InvestmentBalance, error) {
	sym, err := checkOrder(symbol, quantity)
	if err != nil {
		return InvestmentBalance{}, err
	}
	held, ok := ib.holdings[sym]
	if !ok || held < quantity {
		return InvestmentBalance{}, fmt.Errorf("%w: selling %d %s, holding %d", ErrInsufficientShares, quantity, sym, held)
	}

	proceeds := pricePerShare.MulInt(quantity)
	gainLoss, err := proceeds.Sub(ib.costBasis[sym].MulInt(quantity))
	if err != nil {
		return InvestmentBalance{}, err
	}

	next, err := Deposit(ib, proceeds, fmt.Sprintf("Sell %d shares of %s", quantity, sym))
	if err != nil {
		return InvestmentBalance{}, err
	}

	if remaining := held - quantity; remaining == 0 {
		delete(next.holdings, sym)
		delete(next.costBasis, sym)
	} else {
		next.holdings[sym] = remaining
	}
	// next owns its log; the last record is the one Deposit just appended.
	next.transactions[len(next.transactions)-1].GainLoss = &gainLoss
	return next, nil
}

// PortfolioValue is cash plus the market value of every held symbol that has
// a price in currentPrices. Symbols without a price are left out.
func (ib InvestmentBalance) PortfolioValue(currentPrices map[string]Money) (Money, error) {
	total := ib.amount
	for _, sym := range ib.Symbols() {
		price, ok := currentPrices[sym]
		if !ok {
			continue
		}
		var err error
		total, err = total.Add(price.MulInt(ib.holdings[sym]))
		if err != nil {
			return Money{}, fmt.Errorf("valuing %s: %w", sym, err)
		}
	}
	return total, nil
}

// UnrealizedGainLoss sums (price - average cost) * quantity over the priced
// holdings.
func (ib InvestmentBalance) UnrealizedGainLoss(currentPrices map[string]Money) (Money, error) {
	total := ZeroMoney(ib.Currency())
	for _, sym := range ib.Symbols() {
		price, ok := currentPrices[sym]
		if !ok {
			continue
		}
		diff, err := price.Sub(ib.costBasis[sym])
		if err != nil {
			return Money{}, fmt.Errorf("valuing %s: %w", sym, err)
		}
		if total, err = total.Add(diff.MulInt(ib.holdings[sym])); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

func checkOrder(symbol string, quantity int64) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", fmt.Errorf("%w: symbol must not be empty", ErrInvalidSymbol)
	}
	if quantity <= 0 {
		return "", fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}
	return sym, nil
}
