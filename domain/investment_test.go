package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"money-ledger/domain"
	"money-ledger/shared"
)

func newInvestment(amount string) domain.InvestmentBalance {
	return domain.NewInvestmentBalance(usd(amount), domain.WithClock(steppingClock(testTime)))
}

func TestInvestmentBalance_BuyStock(t *testing.T) {
	t.Run("FirstPurchase", func(t *testing.T) {
		inv, err := newInvestment("10000.00").BuyStock("AAPL", 10, usd("150.00"))
		require.NoError(t, err)

		assert.Equal(t, "8500.00", inv.Amount().StringFixed())
		assert.Equal(t, int64(10), inv.Quantity("AAPL"))
		cost, ok := inv.AverageCost("AAPL")
		require.True(t, ok)
		assert.True(t, cost.Equal(usd("150.00")))

		txs := inv.Transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, domain.WithdrawalKind, txs[0].Kind)
		assert.Equal(t, "Buy 10 shares of AAPL", txs[0].Description)
		assert.True(t, txs[0].Amount.Equal(usd("1500.00")))
	})

	t.Run("WeightedAverageCost", func(t *testing.T) {
		inv, err := newInvestment("10000.00").BuyStock("AAPL", 10, usd("150.00"))
		require.NoError(t, err)
		inv, err = inv.BuyStock("AAPL", 10, usd("170.00"))
		require.NoError(t, err)

		assert.Equal(t, int64(20), inv.Quantity("AAPL"))
		cost, _ := inv.AverageCost("AAPL")
		assert.Equal(t, "160.00", cost.StringFixed())
		assert.Equal(t, "6800.00", inv.Amount().StringFixed())
	})

	t.Run("AverageCostIsQuantized", func(t *testing.T) {
		inv, err := newInvestment("1000.00").BuyStock("msft", 1, usd("100.00"))
		require.NoError(t, err)
		inv, err = inv.BuyStock("MSFT", 2, usd("101.00"))
		require.NoError(t, err)

		cost, _ := inv.AverageCost("MSFT")
		assert.Equal(t, "100.67", cost.StringFixed())
		assert.Equal(t, []string{"MSFT"}, inv.Symbols())
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		inv := newInvestment("100.00")
		_, err := inv.BuyStock("AAPL", 1, usd("100.01"))
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Empty(t, inv.Holdings())
		assert.Empty(t, inv.Transactions())
	})

	t.Run("PriceInOtherCurrency", func(t *testing.T) {
		_, err := newInvestment("100.00").BuyStock("SAP", 1, eur("10.00"))
		assert.ErrorIs(t, err, domain.ErrIncompatibleCurrency)
	})

	t.Run("InvalidOrder", func(t *testing.T) {
		_, err := newInvestment("100.00").BuyStock("AAPL", 0, usd("1.00"))
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		_, err = newInvestment("100.00").BuyStock("  ", 1, usd("1.00"))
		assert.ErrorIs(t, err, domain.ErrInvalidSymbol)
	})

	t.Run("PreviousSnapshotKeepsItsHoldings", func(t *testing.T) {
		first, err := newInvestment("1000.00").BuyStock("AAPL", 1, usd("100.00"))
		require.NoError(t, err)
		second, err := first.BuyStock("AAPL", 1, usd("200.00"))
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.Quantity("AAPL"))
		firstCost, _ := first.AverageCost("AAPL")
		assert.Equal(t, "100.00", firstCost.StringFixed())
		assert.Equal(t, int64(2), second.Quantity("AAPL"))

		h := second.Holdings()
		h["AAPL"] = 99
		assert.Equal(t, int64(2), second.Quantity("AAPL"))
	})
}

func TestInvestmentBalance_SellStock(t *testing.T) {
	bought, err := newInvestment("10000.00").BuyStock("AAPL", 10, usd("150.00"))
	require.NoError(t, err)

	t.Run("PartialSaleRecordsGain", func(t *testing.T) {
		inv, err := bought.SellStock("AAPL", 5, usd("160.00"))
		require.NoError(t, err)

		assert.Equal(t, "9300.00", inv.Amount().StringFixed())
		assert.Equal(t, int64(5), inv.Quantity("AAPL"))
		cost, ok := inv.AverageCost("AAPL")
		require.True(t, ok)
		assert.Equal(t, "150.00", cost.StringFixed())

		last := inv.TransactionHistory(1)[0]
		assert.Equal(t, domain.DepositKind, last.Kind)
		assert.Equal(t, "Sell 5 shares of AAPL", last.Description)
		require.True(t, last.HasGainLoss())
		assert.Equal(t, "50.00", last.GainLoss.StringFixed())

		assert.Equal(t, int64(10), bought.Quantity("AAPL"))
		assert.False(t, bought.TransactionHistory(1)[0].HasGainLoss())
	})

	t.Run("SaleAtLoss", func(t *testing.T) {
		inv, err := bought.SellStock("AAPL", 2, usd("140.00"))
		require.NoError(t, err)
		assert.Equal(t, "-20.00", inv.TransactionHistory(1)[0].GainLoss.StringFixed())
	})

	t.Run("SellingEverythingRemovesSymbol", func(t *testing.T) {
		inv, err := bought.SellStock("AAPL", 10, usd("150.00"))
		require.NoError(t, err)
		assert.Empty(t, inv.Holdings())
		assert.Empty(t, inv.CostBasis())
		_, ok := inv.AverageCost("AAPL")
		assert.False(t, ok)
		assert.True(t, inv.TransactionHistory(1)[0].GainLoss.IsZero())
	})

	t.Run("InsufficientShares", func(t *testing.T) {
		_, err := bought.SellStock("AAPL", 11, usd("150.00"))
		assert.ErrorIs(t, err, domain.ErrInsufficientShares)

		_, err = bought.SellStock("TSLA", 1, usd("150.00"))
		assert.ErrorIs(t, err, domain.ErrInsufficientShares)
	})
}

func TestInvestmentBalance_KeepsVariantThroughCashOperations(t *testing.T) {
	inv, err := newInvestment("1000.00").BuyStock("AAPL", 2, usd("100.00"))
	require.NoError(t, err)

	inv, err = inv.Deposit(usd("50.00"), "Dividend")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inv.Quantity("AAPL"))
	assert.Equal(t, shared.Investment, inv.AccountType())

	inv, err = inv.Withdraw(usd("10.00"), "Fee")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inv.Quantity("AAPL"))

	checking := domain.NewBalance(usd("0.00"), shared.Checking)
	inv, checking, err = inv.TransferTo(checking, usd("40.00"), "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inv.Quantity("AAPL"))
	assert.Equal(t, "800.00", inv.Amount().StringFixed())
	assert.Equal(t, "40.00", checking.Amount().StringFixed())
	assert.Equal(t, "Transfer from investment", checking.Transactions()[0].Description)

	// generic transfer into an investment account
	checking, inv, err = domain.Transfer(checking, inv, usd("15.00"), "")
	require.NoError(t, err)
	assert.Equal(t, "815.00", inv.Amount().StringFixed())
	assert.Equal(t, int64(2), inv.Quantity("AAPL"))
	assert.Equal(t, 5, inv.Version())
}

func TestInvestmentBalance_PortfolioValue(t *testing.T) {
	inv, err := newInvestment("10000.00").BuyStock("AAPL", 10, usd("150.00"))
	require.NoError(t, err)
	inv, err = inv.SellStock("AAPL", 5, usd("160.00"))
	require.NoError(t, err)
	inv, err = inv.BuyStock("GOOG", 2, usd("100.00"))
	require.NoError(t, err)

	t.Run("AllPriced", func(t *testing.T) {
		value, err := inv.PortfolioValue(map[string]domain.Money{
			"AAPL": usd("165.00"),
			"GOOG": usd("110.00"),
		})
		require.NoError(t, err)
		// 9100 cash + 5*165 + 2*110
		assert.Equal(t, "10145.00", value.StringFixed())
	})

	t.Run("MissingPriceIsExcluded", func(t *testing.T) {
		value, err := inv.PortfolioValue(map[string]domain.Money{"AAPL": usd("165.00")})
		require.NoError(t, err)
		assert.Equal(t, "9925.00", value.StringFixed())
	})

	t.Run("CashOnly", func(t *testing.T) {
		value, err := inv.PortfolioValue(nil)
		require.NoError(t, err)
		assert.True(t, value.Equal(inv.Amount()))
	})

	t.Run("PriceInOtherCurrency", func(t *testing.T) {
		_, err := inv.PortfolioValue(map[string]domain.Money{"AAPL": eur("165.00")})
		assert.ErrorIs(t, err, domain.ErrIncompatibleCurrency)
	})

	t.Run("UnrealizedGainLoss", func(t *testing.T) {
		gl, err := inv.UnrealizedGainLoss(map[string]domain.Money{
			"AAPL": usd("165.00"),
			"GOOG": usd("90.00"),
		})
		require.NoError(t, err)
		// 5*(165-150) + 2*(90-100)
		assert.Equal(t, "55.00", gl.StringFixed())
	})
}
