package app

import (
	"github.com/shopspring/decimal"

	"money-ledger/shared"
)

// --- Command Struct Definitions ---
// Commands represent the intent to perform an action or change state in the system.
// An empty Currency means the account's own currency.

type OpenAccountCommand struct {
	AccountID     string
	AccountType   shared.AccountType
	InitialAmount decimal.Decimal
	Currency      shared.Currency
}

type DepositMoneyCommand struct {
	AccountID   string
	Amount      decimal.Decimal
	Currency    shared.Currency
	Description string
}

type WithdrawMoneyCommand struct {
	AccountID   string
	Amount      decimal.Decimal
	Currency    shared.Currency
	Description string
}

type TransferMoneyCommand struct {
	SourceAccountID string
	TargetAccountID string
	Amount          decimal.Decimal
	Currency        shared.Currency
	Description     string
}

type BuyStockCommand struct {
	AccountID     string
	Symbol        string
	Quantity      int64
	PricePerShare decimal.Decimal
	Currency      shared.Currency
}

type SellStockCommand struct {
	AccountID     string
	Symbol        string
	Quantity      int64
	PricePerShare decimal.Decimal
	Currency      shared.Currency
}

type AccrueInterestCommand struct {
	AccountID  string
	AnnualRate decimal.Decimal
	Days       int
}

type SetPriceCommand struct {
	Symbol   string
	Price    decimal.Decimal
	Currency shared.Currency
}

type ProcessPaymentCommand struct {
	Method   string
	Amount   decimal.Decimal
	Currency shared.Currency
}

// --- Query Structures (Input for Read Operations) ---

type GetBalanceQuery struct {
	AccountID string
}

// GetHistoryQuery returns the last Limit records; zero means the configured
// default and All overrides both.
type GetHistoryQuery struct {
	AccountID string
	Limit     int
	All       bool
}

type GetInterestQuery struct {
	AccountID  string
	AnnualRate decimal.Decimal
	Days       int
}

type GetPortfolioQuery struct {
	AccountID string
}

type GetStatementQuery struct {
	AccountID string
	Limit     int
}

type GetLineageQuery struct {
	AccountID string
}

type PaymentFeeQuery struct {
	Method   string
	Amount   decimal.Decimal
	Currency shared.Currency
}
