package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"money-ledger/shared"
)

const (
	DefaultHistoryLimit = 10
	DefaultInterestDays = 30
)

var daysPerYear = decimal.NewFromInt(365)

// Account is the read side shared by every balance variant.
type Account interface {
	Base() Balance
	AccountType() shared.AccountType
	Amount() Money
	Currency() shared.Currency
	Version() int
	CreatedAt() time.Time
	Transactions() []TransactionRecord
	TransactionHistory(limit int) []TransactionRecord
}

// Ledger is implemented by every balance variant. WithBase rebuilds the
// variant around a new base snapshot, copying its own state, so that the
// shared transitions below return the same concrete type they were given.
type Ledger[T any] interface {
	Account
	WithBase(base Balance) T
}

// Balance is one immutable snapshot of an account. Transitions never modify
// the receiver; they return the next snapshot of the lineage.
type Balance struct {
	amount       Money
	accountType  shared.AccountType
	transactions []TransactionRecord
	createdAt    time.Time
	clock        Clock
}

type Option func(*Balance)

func WithClock(c Clock) Option {
	return func(b *Balance) {
		if c != nil {
			b.clock = c
		}
	}
}

func NewBalance(amount Money, accountType shared.AccountType, opts ...Option) Balance {
	b := Balance{
		amount:      amount,
		accountType: accountType,
		clock:       SystemClock,
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.createdAt = b.clock()
	return b
}

func (b Balance) Base() Balance                   { return b }
func (b Balance) WithBase(base Balance) Balance   { return base }
func (b Balance) Amount() Money                   { return b.amount }
func (b Balance) Currency() shared.Currency       { return b.amount.currency }
func (b Balance) AccountType() shared.AccountType { return b.accountType }
func (b Balance) CreatedAt() time.Time            { return b.createdAt }

// Version is the number of transactions in the lineage up to this snapshot.
func (b Balance) Version() int { return len(b.transactions) }

func (b Balance) String() string {
	return b.amount.String()
}

func (b Balance) Deposit(amount Money, description string) (Balance, error) {
	return Deposit(b, amount, description)
}

func (b Balance) Withdraw(amount Money, description string) (Balance, error) {
	return Withdraw(b, amount, description)
}

func (b Balance) TransferTo(target Balance, amount Money, description string) (Balance, Balance, error) {
	return Transfer(b, target, amount, description)
}

// Transactions returns a copy of the whole log.
func (b Balance) Transactions() []TransactionRecord {
	return b.TransactionHistory(0)
}

// TransactionHistory returns the last limit records in chronological order.
// A limit of zero or less returns the whole log.
func (b Balance) TransactionHistory(limit int) []TransactionRecord {
	start := 0
	if limit > 0 && limit < len(b.transactions) {
		start = len(b.transactions) - limit
	}
	out := make([]TransactionRecord, 0, len(b.transactions)-start)
	for _, r := range b.transactions[start:] {
		if r.GainLoss != nil {
			gl := *r.GainLoss
			r.GainLoss = &gl
		}
		out = append(out, r)
	}
	return out
}

// CalculateInterest returns simple interest over days at annualRate. Only
// savings and money market accounts accrue; others return zero.
func (b Balance) CalculateInterest(annualRate decimal.Decimal, days int) Money {
	if !b.accountType.AccruesInterest() {
		return ZeroMoney(b.Currency())
	}
	interest := b.amount.amount.Mul(annualRate).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear)
	return NewMoney(interest, b.Currency())
}

func (b Balance) now() time.Time {
	if b.clock == nil {
		return SystemClock()
	}
	return b.clock()
}

// next builds the successor snapshot holding newAmount and a private copy of
// the log with one more record.
func (b Balance) next(kind TransactionKind, amount, newAmount Money, description string) Balance {
	n := b
	n.amount = newAmount
	txs := make([]TransactionRecord, len(b.transactions), len(b.transactions)+1)
	copy(txs, b.transactions)
	n.transactions = append(txs, TransactionRecord{
		ID:           uuid.New(),
		Sequence:     len(txs) + 1,
		Kind:         kind,
		Amount:       amount,
		Description:  description,
		Timestamp:    b.now(),
		BalanceAfter: newAmount,
	})
	return n
}

func checkTransactionAmount(op string, amount Money, currency shared.Currency) error {
	if amount.currency != currency {
		return fmt.Errorf("%w: cannot %s %s to %s account", ErrIncompatibleCurrency, op, amount.currency, currency)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s amount must not be negative: %s", ErrInvalidAmount, op, amount)
	}
	return nil
}

// Deposit returns the successor of acct with amount added.
func Deposit[T Ledger[T]](acct T, amount Money, description string) (T, error) {
	base := acct.Base()
	if err := checkTransactionAmount("deposit", amount, base.Currency()); err != nil {
		var zero T
		return zero, err
	}
	if description == "" {
		description = "Deposit"
	}
	total, err := base.amount.Add(amount)
	if err != nil {
		var zero T
		return zero, err
	}
	return acct.WithBase(base.next(DepositKind, amount, total, description)), nil
}

// Withdraw returns the successor of acct with amount removed. It fails with
// ErrInsufficientFunds rather than let the balance go negative.
func Withdraw[T Ledger[T]](acct T, amount Money, description string) (T, error) {
	var zero T
	base := acct.Base()
	if err := checkTransactionAmount("withdraw", amount, base.Currency()); err != nil {
		return zero, err
	}
	over, err := amount.GreaterThan(base.amount)
	if err != nil {
		return zero, err
	}
	if over {
		return zero, fmt.Errorf("%w: requested %s, available %s", ErrInsufficientFunds, amount, base.amount)
	}
	if description == "" {
		description = "Withdrawal"
	}
	remaining, err := base.amount.Sub(amount)
	if err != nil {
		return zero, err
	}
	return acct.WithBase(base.next(WithdrawalKind, amount, remaining, description)), nil
}

// Transfer withdraws amount from source and deposits it into target. The two
// steps are independent value transformations, not an atomic unit: nothing
// compensates the withdrawal should the deposit fail.
func Transfer[S Ledger[S], T Ledger[T]](source S, target T, amount Money, description string) (S, T, error) {
	var (
		zeroS S
		zeroT T
	)
	src, dst := source.Base(), target.Base()
	if amount.currency != src.Currency() || amount.currency != dst.Currency() {
		return zeroS, zeroT, fmt.Errorf("%w: transfer of %s from %s account to %s account",
			ErrIncompatibleCurrency, amount.currency, src.Currency(), dst.Currency())
	}

	newSource, err := Withdraw(source, amount, transferDescription("Transfer to", dst.accountType, description))
	if err != nil {
		return zeroS, zeroT, err
	}
	newTarget, err := Deposit(target, amount, transferDescription("Transfer from", src.accountType, description))
	if err != nil {
		return zeroS, zeroT, fmt.Errorf("transfer credit failed after debit: %w", err)
	}
	return newSource, newTarget, nil
}

func transferDescription(prefix string, counterparty shared.AccountType, description string) string {
	s := prefix + " " + string(counterparty)
	if description != "" {
		s += ": " + description
	}
	return s
}

// DepositAccount, WithdrawAccount and TransferAccounts dispatch on the
// concrete variant behind an Account, for callers that only hold the
// interface.
func DepositAccount(acct Account, amount Money, description string) (Account, error) {
	switch a := acct.(type) {
	case InvestmentBalance:
		next, err := Deposit(a, amount, description)
		if err != nil {
			return nil, err
		}
		return next, nil
	case Balance:
		next, err := Deposit(a, amount, description)
		if err != nil {
			return nil, err
		}
		return next, nil
	default:
		return nil, fmt.Errorf("%w: unsupported account variant %T", ErrInvalidType, acct)
	}
}

func WithdrawAccount(acct Account, amount Money, description string) (Account, error) {
	switch a := acct.(type) {
	case InvestmentBalance:
		next, err := Withdraw(a, amount, description)
		if err != nil {
			return nil, err
		}
		return next, nil
	case Balance:
		next, err := Withdraw(a, amount, description)
		if err != nil {
			return nil, err
		}
		return next, nil
	default:
		return nil, fmt.Errorf("%w: unsupported account variant %T", ErrInvalidType, acct)
	}
}

func TransferAccounts(source, target Account, amount Money, description string) (Account, Account, error) {
	if amount.currency != source.Currency() || amount.currency != target.Currency() {
		return nil, nil, fmt.Errorf("%w: transfer of %s from %s account to %s account",
			ErrIncompatibleCurrency, amount.currency, source.Currency(), target.Currency())
	}
	newSource, err := WithdrawAccount(source, amount, transferDescription("Transfer to", target.AccountType(), description))
	if err != nil {
		return nil, nil, err
	}
	newTarget, err := DepositAccount(target, amount, transferDescription("Transfer from", source.AccountType(), description))
	if err != nil {
		return nil, nil, fmt.Errorf("transfer credit failed after debit: %w", err)
	}
	return newSource, newTarget, nil
}
