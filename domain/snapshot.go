package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"money-ledger/shared"
)

// Statement is a serialisable view of one snapshot, including the holdings
// ledger for investment accounts.
type Statement struct {
	AccountID    string              `json:"accountId"`
	AccountType  shared.AccountType  `json:"accountType"`
	Version      int                 `json:"version"`
	Balance      Money               `json:"balance"`
	CreatedAt    time.Time           `json:"createdAt"`
	Holdings     map[string]int64    `json:"holdings,omitempty"`
	CostBasis    map[string]Money    `json:"costBasis,omitempty"`
	Transactions []TransactionRecord `json:"transactions"`
}

func CreateStatement(accountID string, acct Account, historyLimit int) Statement {
	st := Statement{
		AccountID:    accountID,
		AccountType:  acct.AccountType(),
		Version:      acct.Version(),
		Balance:      acct.Amount(),
		CreatedAt:    acct.CreatedAt(),
		Transactions: acct.TransactionHistory(historyLimit),
	}
	if inv, ok := acct.(InvestmentBalance); ok {
		st.Holdings = inv.Holdings()
		st.CostBasis = inv.CostBasis()
	}
	return st
}

func (s Statement) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal statement for account %s (version %d): %w", s.AccountID, s.Version, err)
	}
	return data, nil
}
