package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"money-ledger/domain"
	"money-ledger/shared"
)

func TestMoney_Quantization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1.005", want: "1.01"},
		{in: "1.004", want: "1.00"},
		{in: "-1.005", want: "-1.01"},
		{in: "10", want: "10.00"},
		{in: "0.125", want: "0.13"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := usd(tt.in)
			assert.Equal(t, tt.want, m.StringFixed())
			assert.Equal(t, int32(-2), m.Amount().Exponent())
		})
	}
}

func TestMoney_ParseMoney(t *testing.T) {
	m, err := domain.ParseMoney(" 42.1 ", "eur")
	require.NoError(t, err)
	assert.Equal(t, shared.EUR, m.Currency())
	assert.Equal(t, "42.10", m.StringFixed())

	_, err = domain.ParseMoney("forty", "USD")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = domain.ParseMoney("1.00", "dollars")
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	assert.Panics(t, func() { domain.MustParseMoney("x", "USD") })
}

func TestMoney_CurrencySafety(t *testing.T) {
	a, b := usd("10.00"), eur("10.00")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, domain.ErrIncompatibleCurrency)

	_, err = a.Sub(b)
	assert.ErrorIs(t, err, domain.ErrIncompatibleCurrency)

	_, err = a.GreaterThan(b)
	assert.ErrorIs(t, err, domain.ErrIncompatibleCurrency)

	_, err = a.LessThan(b)
	assert.ErrorIs(t, err, domain.ErrIncompatibleCurrency)

	assert.False(t, a.Equal(b))
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("AddSub", func(t *testing.T) {
		sum, err := usd("0.10").Add(usd("0.20"))
		require.NoError(t, err)
		assert.True(t, sum.Equal(usd("0.30")))

		diff, err := usd("5.00").Sub(usd("7.25"))
		require.NoError(t, err)
		assert.Equal(t, "-2.25", diff.StringFixed())
		assert.True(t, diff.IsNegative())
	})

	t.Run("MulScalars", func(t *testing.T) {
		base := usd("100.00")
		for _, factor := range []any{dec("0.029"), 0.029, float32(0.029)} {
			got, err := base.Mul(factor)
			require.NoError(t, err)
			assert.Equal(t, "2.90", got.StringFixed(), "factor %T", factor)
		}
		got, err := usd("19.99").Mul(3)
		require.NoError(t, err)
		assert.Equal(t, "59.97", got.StringFixed())
		assert.True(t, usd("19.99").MulInt(3).Equal(got))
	})

	t.Run("MulRejectsNonNumeric", func(t *testing.T) {
		_, err := usd("1.00").Mul("3")
		assert.ErrorIs(t, err, domain.ErrInvalidType)
	})

	t.Run("Div", func(t *testing.T) {
		got, err := usd("10.00").Div(3)
		require.NoError(t, err)
		assert.Equal(t, "3.33", got.StringFixed())

		got, err = usd("20.00").Div(uint64(3))
		require.NoError(t, err)
		assert.Equal(t, "6.67", got.StringFixed())
	})

	t.Run("DivByZero", func(t *testing.T) {
		_, err := usd("10.00").Div(0)
		assert.ErrorIs(t, err, domain.ErrDivisionByZero)
		_, err = usd("10.00").Div(dec("0.00"))
		assert.ErrorIs(t, err, domain.ErrDivisionByZero)
	})

	t.Run("DivRejectsNonNumeric", func(t *testing.T) {
		_, err := usd("10.00").Div(struct{}{})
		assert.ErrorIs(t, err, domain.ErrInvalidType)
	})
}

func TestMoney_Ordering(t *testing.T) {
	gt, err := usd("10.01").GreaterThan(usd("10.00"))
	require.NoError(t, err)
	assert.True(t, gt)

	gte, err := usd("10.00").GreaterThanOrEqual(usd("10.00"))
	require.NoError(t, err)
	assert.True(t, gte)

	lt, err := usd("10.00").LessThan(usd("10.00"))
	require.NoError(t, err)
	assert.False(t, lt)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "USD 1,234.50", usd("1234.5").String())
	assert.Equal(t, "USD 0.05", usd("0.05").String())
	assert.Equal(t, "EUR 1,000,000.00", eur("1000000").String())
	assert.Equal(t, "USD -5.00", usd("-5").String())
	assert.Equal(t, "USD -1,234.50", usd("-1234.5").String())
	assert.Equal(t, "USD 0.00", usd("0").String())

	t.Run("BeyondMinorUnitRange", func(t *testing.T) {
		assert.Equal(t, "USD 100,000,000,000,000,000.00", usd("100000000000000000.00").String())
		assert.Equal(t, "USD -12,345,678,901,234,567,890.12", usd("-12345678901234567890.12").String())
	})
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(usd("1500"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1500.00","currency":"USD"}`, string(data))

	var back domain.Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(usd("1500.00")))
}
