package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"money-ledger/domain"
	"money-ledger/shared"
)

type Config struct {
	Currency     string          `env:"LEDGER_CURRENCY" envDefault:"USD"`
	CardFeeRate  decimal.Decimal `env:"LEDGER_CARD_FEE_RATE" envDefault:"0.029"`
	BankFlatFee  decimal.Decimal `env:"LEDGER_BANK_FLAT_FEE" envDefault:"2.50"`
	HistoryLimit int             `env:"LEDGER_HISTORY_LIMIT" envDefault:"10"`
	InterestDays int             `env:"LEDGER_INTEREST_DAYS" envDefault:"30"`
	// LogMode is one of nop, development or production.
	LogMode string `env:"LEDGER_LOG_MODE" envDefault:"nop"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := shared.ParseCurrency(c.Currency); err != nil {
		return fmt.Errorf("LEDGER_CURRENCY: %w", err)
	}
	if c.CardFeeRate.IsNegative() {
		return fmt.Errorf("LEDGER_CARD_FEE_RATE must not be negative: %s", c.CardFeeRate)
	}
	if c.BankFlatFee.IsNegative() {
		return fmt.Errorf("LEDGER_BANK_FLAT_FEE must not be negative: %s", c.BankFlatFee)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("LEDGER_HISTORY_LIMIT must be positive: %d", c.HistoryLimit)
	}
	if c.InterestDays <= 0 {
		return fmt.Errorf("LEDGER_INTEREST_DAYS must be positive: %d", c.InterestDays)
	}
	switch c.LogMode {
	case "nop", "development", "production":
	default:
		return fmt.Errorf("LEDGER_LOG_MODE must be nop, development or production: %q", c.LogMode)
	}
	return nil
}

func (c Config) BaseCurrency() shared.Currency {
	cur, _ := shared.ParseCurrency(c.Currency)
	return cur
}

// BankFee is the bank-transfer flat fee in the base currency.
func (c Config) BankFee() domain.Money {
	return domain.NewMoney(c.BankFlatFee, c.BaseCurrency())
}

func (c Config) NewLogger() (*zap.Logger, error) {
	switch c.LogMode {
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewNop(), nil
	}
}
