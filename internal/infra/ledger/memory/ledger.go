// Package memory implements an in-memory value-transfer ledger for tests
// and ephemeral environments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hackledger/pkg/domain"
)

// Compile-time contract assertion ensuring the ledger satisfies the domain interface.
var _ domain.Ledger = (*Ledger)(nil)

// Receipt records one completed transfer.
type Receipt struct {
	ID     string           `json:"id"`
	To     domain.AccountID `json:"to"`
	Amount domain.Amount    `json:"amount"`
	At     time.Time        `json:"at"`
}

// Ledger keeps per-identity balances and a receipt per completed transfer.
// A transfer either commits fully or fails having moved nothing, matching
// the contract the award state machine relies on. FailNext injects a
// single failure for tests exercising the failed-pay path.
type Ledger struct {
	mu       sync.Mutex
	balances map[domain.AccountID]domain.Amount
	receipts []Receipt
	failErr  error
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[domain.AccountID]domain.Amount)}
}

// FailNext makes the next Transfer call fail with err, moving nothing.
func (l *Ledger) FailNext(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failErr = err
}

// Transfer credits amount to the target identity and records a receipt.
func (l *Ledger) Transfer(_ context.Context, to domain.AccountID, amount domain.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failErr != nil {
		err := l.failErr
		l.failErr = nil
		return err
	}
	l.balances[to] = l.balances[to].Add(amount)
	l.receipts = append(l.receipts, Receipt{
		ID:     uuid.NewString(),
		To:     to,
		Amount: amount,
		At:     time.Now().UTC(),
	})
	return nil
}

// Balance returns the accumulated balance for an identity.
func (l *Ledger) Balance(id domain.AccountID) domain.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[id]
}

// Receipts returns a copy of all recorded transfers ordered by time.
func (l *Ledger) Receipts() []Receipt {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := append([]Receipt(nil), l.receipts...)
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}
