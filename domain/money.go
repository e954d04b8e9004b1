package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"money-ledger/shared"
)

// Places is the number of fractional digits every Money amount carries.
const Places = 2

// Money is an immutable currency-tagged amount, always quantized to two
// decimal places with half-up rounding.
type Money struct {
	amount   decimal.Decimal
	currency shared.Currency
}

// quantize rounds half away from zero, which for positive and negative
// values alike is the half-up rule.
func quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// NewMoney quantizes amount. currency must already be a valid code, such as
// a shared constant or the result of shared.ParseCurrency; use ParseMoney for
// untrusted input.
func NewMoney(amount decimal.Decimal, currency shared.Currency) Money {
	return Money{amount: quantize(amount), currency: shared.Currency(strings.ToUpper(string(currency)))}
}

// ParseMoney builds Money from an exact decimal literal such as "1500.00".
func ParseMoney(amount, currency string) (Money, error) {
	cur, err := shared.ParseCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, amount, err)
	}
	return NewMoney(d, cur), nil
}

// MustParseMoney is ParseMoney for literals known to be valid. It panics on error.
func MustParseMoney(amount, currency string) Money {
	m, err := ParseMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney(currency shared.Currency) Money {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal   { return m.amount }
func (m Money) Currency() shared.Currency { return m.currency }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, currencyMismatch("add", m.currency, other.currency)
	}
	return NewMoney(m.amount.Add(other.amount), m.currency), nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, currencyMismatch("subtract", m.currency, other.currency)
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency), nil
}

// Mul scales m by factor, which may be any Go integer or float type or a
// decimal.Decimal.
func (m Money) Mul(factor any) (Money, error) {
	f, err := toDecimal(factor)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Mul(f), m.currency), nil
}

// MulInt is the infallible form of Mul for share counts and day counts.
func (m Money) MulInt(n int64) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(n)), m.currency)
}

func (m Money) Div(divisor any) (Money, error) {
	d, err := toDecimal(divisor)
	if err != nil {
		return Money{}, err
	}
	if d.IsZero() {
		return Money{}, fmt.Errorf("%w: cannot divide %s by zero", ErrDivisionByZero, m)
	}
	return NewMoney(m.amount.Div(d), m.currency), nil
}

func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, currencyMismatch("compare", m.currency, other.currency)
	}
	return m.amount.GreaterThan(other.amount), nil
}

func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, currencyMismatch("compare", m.currency, other.currency)
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, currencyMismatch("compare", m.currency, other.currency)
	}
	return m.amount.LessThan(other.amount), nil
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// String renders the amount with its code and thousands separators, the
// sign following the code: "USD 1,234.56", "USD -5.00".
func (m Money) String() string {
	abs := m.amount.Abs()
	var body string
	if minor := abs.Shift(Places); minor.LessThanOrEqual(maxMinorUnits) {
		body = gomoney.NewFormatter(Places, ".", ",", "", "1").Format(minor.IntPart())
	} else {
		body = groupThousands(abs.StringFixed(Places))
	}
	sign := ""
	if m.amount.IsNegative() {
		sign = "-"
	}
	return string(m.currency) + " " + sign + body
}

// groupThousands inserts separators into an unsigned fixed-point string
// too large for the minor-unit formatter.
func groupThousands(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(".")
		b.WriteString(frac)
	}
	return b.String()
}

// StringFixed is the bare amount with two decimals, e.g. "1234.56".
func (m Money) StringFixed() string {
	return m.amount.StringFixed(Places)
}

type moneyJSON struct {
	Amount   string          `json:"amount"`
	Currency shared.Currency `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.StringFixed(), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMoney(raw.Amount, string(raw.Currency))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		if n == nil {
			return decimal.Decimal{}, fmt.Errorf("%w: nil *decimal.Decimal", ErrInvalidType)
		}
		return *n, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint8:
		return decimal.NewFromInt(int64(n)), nil
	case uint16:
		return decimal.NewFromInt(int64(n)), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), nil
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return decimal.Decimal{}, fmt.Errorf("%w: %v is not a finite number", ErrInvalidType, n)
		}
		return decimal.NewFromFloat32(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, fmt.Errorf("%w: %v is not a finite number", ErrInvalidType, n)
		}
		return decimal.NewFromFloat(n), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: cannot use %T as a scalar", ErrInvalidType, v)
	}
}
