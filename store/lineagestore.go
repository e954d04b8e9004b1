package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"money-ledger/domain"
)

var (
	ErrOptimisticLock = errors.New("optimistic lock error: version conflict")
	ErrAlreadyExists  = errors.New("lineage already exists")
)

// LineageStore keeps every snapshot an account has gone through. Append is a
// compare-and-swap on the head of the lineage.
type LineageStore interface {
	Create(accountID string, initial domain.Account) error

	Append(accountID string, expectedVersion int, next domain.Account) error

	GetLatest(accountID string) (snapshot domain.Account, found bool, err error)

	GetLineage(accountID string) ([]domain.Account, error)

	GetLineageAfterVersion(accountID string, version int) ([]domain.Account, error)

	AccountIDs() []string
}

type InMemoryLineageStore struct {
	sync.RWMutex
	lineages map[string][]domain.Account
}

func NewInMemoryLineageStore() *InMemoryLineageStore {
	return &InMemoryLineageStore{
		lineages: make(map[string][]domain.Account),
	}
}

func (s *InMemoryLineageStore) Create(accountID string, initial domain.Account) error {
	if initial == nil {
		return fmt.Errorf("cannot create lineage %s from nil snapshot", accountID)
	}
	s.Lock()
	defer s.Unlock()

	if _, exists := s.lineages[accountID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, accountID)
	}
	s.lineages[accountID] = []domain.Account{initial}
	return nil
}

func (s *InMemoryLineageStore) Append(accountID string, expectedVersion int, next domain.Account) error {
	if next == nil {
		return fmt.Errorf("cannot append nil snapshot to %s", accountID)
	}
	s.Lock()
	defer s.Unlock()

	lineage, ok := s.lineages[accountID]
	if !ok || len(lineage) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}

	head := lineage[len(lineage)-1]
	if head.Version() != expectedVersion {
		return fmt.Errorf("%w: expected version %d, but current version is %d for account %s",
			ErrOptimisticLock, expectedVersion, head.Version(), accountID)
	}
	if next.Version() != expectedVersion+1 {
		return fmt.Errorf("snapshot sequence error for account %s: expected version %d, got %d",
			accountID, expectedVersion+1, next.Version())
	}
	if next.Currency() != head.Currency() || next.AccountType() != head.AccountType() {
		return fmt.Errorf("snapshot for account %s changes lineage identity: %s/%s -> %s/%s",
			accountID, head.AccountType(), head.Currency(), next.AccountType(), next.Currency())
	}

	s.lineages[accountID] = append(lineage, next)
	return nil
}

func (s *InMemoryLineageStore) GetLatest(accountID string) (domain.Account, bool, error) {
	s.RLock()
	defer s.RUnlock()

	lineage, ok := s.lineages[accountID]
	if !ok || len(lineage) == 0 {
		return nil, false, nil
	}
	return lineage[len(lineage)-1], true, nil
}

// GetLineage returns the snapshots oldest first. Snapshots are immutable
// values, so only the slice is copied.
func (s *InMemoryLineageStore) GetLineage(accountID string) ([]domain.Account, error) {
	s.RLock()
	defer s.RUnlock()

	lineage, ok := s.lineages[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}
	return slices.Clone(lineage), nil
}

func (s *InMemoryLineageStore) GetLineageAfterVersion(accountID string, version int) ([]domain.Account, error) {
	s.RLock()
	defer s.RUnlock()

	lineage, ok := s.lineages[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}

	startIndex := -1
	for i, snap := range lineage {
		if snap.Version() > version {
			startIndex = i
			break
		}
	}
	if startIndex == -1 {
		return []domain.Account{}, nil
	}
	return slices.Clone(lineage[startIndex:]), nil
}

// AccountIDs lists the known accounts in sorted order.
func (s *InMemoryLineageStore) AccountIDs() []string {
	s.RLock()
	defer s.RUnlock()

	ids := make([]string, 0, len(s.lineages))
	for id := range s.lineages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
