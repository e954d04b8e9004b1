package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"money-ledger/shared"
)

var (
	DefaultCardFeeRate = decimal.RequireFromString("0.029")
	DefaultBankFlatFee = MustParseMoney("2.50", string(shared.USD))
)

// PaymentMethod computes processing fees for a payment. Settlement is not
// modelled: ProcessPayment only announces the payment and reports success.
type PaymentMethod interface {
	ProcessPayment(amount Money) bool
	Fees(amount Money) (Money, error)
}

// CreditCardPayment charges a percentage of the payment.
type CreditCardPayment struct {
	FeeRate decimal.Decimal
	logger  *zap.Logger
}

func NewCreditCardPayment(feeRate decimal.Decimal, logger *zap.Logger) *CreditCardPayment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreditCardPayment{FeeRate: feeRate, logger: logger}
}

func (c *CreditCardPayment) ProcessPayment(amount Money) bool {
	c.logger.Info("processing credit card payment", zap.Stringer("amount", amount))
	return true
}

func (c *CreditCardPayment) Fees(amount Money) (Money, error) {
	return amount.Mul(c.FeeRate)
}

// BankTransferPayment charges a flat fee in a single currency.
type BankTransferPayment struct {
	FlatFee Money
	logger  *zap.Logger
}

func NewBankTransferPayment(flatFee Money, logger *zap.Logger) *BankTransferPayment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankTransferPayment{FlatFee: flatFee, logger: logger}
}

func (b *BankTransferPayment) ProcessPayment(amount Money) bool {
	b.logger.Info("processing bank transfer", zap.Stringer("amount", amount))
	return true
}

func (b *BankTransferPayment) Fees(amount Money) (Money, error) {
	if amount.Currency() != b.FlatFee.Currency() {
		return Money{}, fmt.Errorf("%w: fee is charged in %s, payment is in %s",
			ErrIncompatibleCurrency, b.FlatFee.Currency(), amount.Currency())
	}
	return b.FlatFee, nil
}

// TotalCharge is the payment plus the method's fee.
func TotalCharge(method PaymentMethod, amount Money) (Money, error) {
	fee, err := method.Fees(amount)
	if err != nil {
		return Money{}, err
	}
	return amount.Add(fee)
}
