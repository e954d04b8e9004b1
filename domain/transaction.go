package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionKind string

const (
	DepositKind    TransactionKind = "deposit"
	WithdrawalKind TransactionKind = "withdrawal"
)

// TransactionRecord is one entry of a balance's log. It is appended to the
// snapshot it produced and never to the one it came from.
type TransactionRecord struct {
	ID          uuid.UUID       `json:"id"`
	Sequence    int             `json:"sequence"` // position in the lineage, starting at 1
	Kind        TransactionKind `json:"kind"`
	Amount      Money           `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	// BalanceAfter is the amount of the snapshot this record belongs to.
	BalanceAfter Money `json:"balanceAfter"`
	// GainLoss is set on stock sales only.
	GainLoss *Money `json:"gainLoss,omitempty"`
}

func (r TransactionRecord) HasGainLoss() bool {
	return r.GainLoss != nil
}

// Clock supplies timestamps for snapshots and transaction records.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
