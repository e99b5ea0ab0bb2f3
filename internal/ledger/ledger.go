// Package ledger owns user balances. A single lock covers every account so a
// two-sided transfer is observed by readers either fully applied or not at all.
package ledger

import (
	"fmt"
	"sync"

	"online-auction/internal/biddingerrors"

	"github.com/shopspring/decimal"
)

// Ledger defines balance operations used by the auction core
type Ledger interface {
	Open(userID string, initial decimal.Decimal) error
	Close(userID string) error
	Balance(userID string) (decimal.Decimal, error)
	Debit(userID string, amount decimal.Decimal) error
	Credit(userID string, amount decimal.Decimal) error
	Settle(payerID, payeeID string, amount decimal.Decimal) error
}

// MemoryLedger is a concurrency-safe in-memory Ledger
type MemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// NewMemoryLedger creates an empty ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]decimal.Decimal),
	}
}

// Open creates an account with a non-negative initial balance
func (l *MemoryLedger) Open(userID string, initial decimal.Decimal) error {
	if userID == "" {
		return fmt.Errorf("ledger: %w - empty user ID", biddingerrors.ErrInvalidTransfer)
	}
	if initial.IsNegative() {
		return fmt.Errorf("ledger: %w - negative opening balance %s", biddingerrors.ErrInvalidTransfer, initial)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.balances[userID]; ok {
		return fmt.Errorf("ledger: account %s: %w", userID, biddingerrors.ErrUserExists)
	}
	l.balances[userID] = initial
	return nil
}

// Close removes userID's account. Used to undo an Open whose owner was never
// registered.
func (l *MemoryLedger) Close(userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.balances[userID]; !ok {
		return fmt.Errorf("ledger: close %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	delete(l.balances, userID)
	return nil
}

// Balance returns the current balance of userID
func (l *MemoryLedger) Balance(userID string) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bal, ok := l.balances[userID]
	if !ok {
		return decimal.Zero, fmt.Errorf("ledger: balance for %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	return bal, nil
}

// Debit removes amount from userID, failing without change if funds are short
func (l *MemoryLedger) Debit(userID string, amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bal, ok := l.balances[userID]
	if !ok {
		return fmt.Errorf("ledger: debit %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	if bal.LessThan(amount) {
		return fmt.Errorf("ledger: debit %s: %w - balance %s, need %s", userID, biddingerrors.ErrInsufficientFunds, bal, amount)
	}
	l.balances[userID] = bal.Sub(amount)
	return nil
}

// Credit adds amount to userID
func (l *MemoryLedger) Credit(userID string, amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bal, ok := l.balances[userID]
	if !ok {
		return fmt.Errorf("ledger: credit %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	l.balances[userID] = bal.Add(amount)
	return nil
}

// Settle moves amount from payer to payee as one step. The payer balance is
// re-checked here; on any failure neither balance changes.
func (l *MemoryLedger) Settle(payerID, payeeID string, amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if payerID == payeeID {
		return fmt.Errorf("ledger: %w - payer and payee are both %s", biddingerrors.ErrInvalidTransfer, payerID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	payerBal, ok := l.balances[payerID]
	if !ok {
		return fmt.Errorf("ledger: settle payer %s: %w", payerID, biddingerrors.ErrUserNotFound)
	}
	payeeBal, ok := l.balances[payeeID]
	if !ok {
		return fmt.Errorf("ledger: settle payee %s: %w", payeeID, biddingerrors.ErrUserNotFound)
	}
	if payerBal.LessThan(amount) {
		return fmt.Errorf("ledger: %w - payer %s has %s, owes %s", biddingerrors.ErrSettlementFailed, payerID, payerBal, amount)
	}

	l.balances[payerID] = payerBal.Sub(amount)
	l.balances[payeeID] = payeeBal.Add(amount)
	return nil
}

// Total returns the sum of all balances
func (l *MemoryLedger) Total() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, bal := range l.balances {
		total = total.Add(bal)
	}
	return total
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("ledger: %w - non-positive amount %s", biddingerrors.ErrInvalidTransfer, amount)
	}
	return nil
}
