package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"money-ledger/config"
	"money-ledger/shared"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, shared.USD, cfg.BaseCurrency())
	assert.Equal(t, "0.029", cfg.CardFeeRate.String())
	assert.Equal(t, "USD 2.50", cfg.BankFee().String())
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 30, cfg.InterestDays)
	assert.Equal(t, "nop", cfg.LogMode)

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LEDGER_CURRENCY", "eur")
	t.Setenv("LEDGER_CARD_FEE_RATE", "0.015")
	t.Setenv("LEDGER_BANK_FLAT_FEE", "1.999")
	t.Setenv("LEDGER_HISTORY_LIMIT", "3")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, shared.EUR, cfg.BaseCurrency())
	assert.Equal(t, "0.015", cfg.CardFeeRate.String())
	assert.Equal(t, "EUR 2.00", cfg.BankFee().String())
	assert.Equal(t, 3, cfg.HistoryLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"LEDGER_CURRENCY":      "dollars",
		"LEDGER_CARD_FEE_RATE": "-0.01",
		"LEDGER_HISTORY_LIMIT": "0",
		"LEDGER_INTEREST_DAYS": "-5",
		"LEDGER_LOG_MODE":      "verbose",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			cfg, err := config.Load()
			assert.Error(t, err)
			assert.Equal(t, config.Config{}, cfg)
		})
	}

	t.Run("Unparseable", func(t *testing.T) {
		t.Setenv("LEDGER_BANK_FLAT_FEE", "two fifty")
		_, err := config.Load()
		assert.Error(t, err)
	})
}
