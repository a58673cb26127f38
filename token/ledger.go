// Package token provides the in-memory balance ledger that backs the
// voting service. It owns token accounting only: transfers, minting and
// burning. Snapshot bookkeeping lives entirely in the voting package and
// is driven through the balance-change hook.
package token

import (
	"errors"
	"fmt"
	"sync"

	"github.com/voteledger/voteledger/voting"
)

// Sentinel errors for failure cases
var (
	ErrZeroAddress         = errors.New("zero address")
	ErrZeroAmount          = errors.New("zero amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ChangeHook is notified once per affected account after every
// balance-changing operation. The zero address never receives a
// notification; supply creation and destruction are not account changes.
type ChangeHook func(account voting.Address)

// Option configures the Ledger
type Option func(*Ledger)

// WithBalances seeds the ledger with initial balances
func WithBalances(balances map[voting.Address]uint64) Option {
	return func(l *Ledger) {
		for account, balance := range balances {
			l.balances[account] = balance
		}
	}
}

// Ledger is an in-memory account balance store.
type Ledger struct {
	mu       sync.RWMutex
	balances map[voting.Address]uint64
	hook     ChangeHook
}

// NewLedger creates an empty ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		balances: make(map[voting.Address]uint64),
		hook:     func(voting.Address) {}, // nop until registered
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RegisterHook installs the balance-change hook. The voting service and
// the ledger reference each other, so the hook is registered after both
// are constructed rather than injected at construction time.
func (l *Ledger) RegisterHook(hook ChangeHook) {
	l.hook = hook
}

// CurrentBalance returns the account's live balance, 0 for unknown accounts.
func (l *Ledger) CurrentBalance(account voting.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account]
}

// TotalSupply returns the sum of all account balances.
func (l *Ledger) TotalSupply() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total uint64
	for _, balance := range l.balances {
		total += balance
	}
	return total
}

// Transfer moves amount from one real account to another and notifies
// the hook for both.
func (l *Ledger) Transfer(from, to voting.Address, amount uint64) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: transfer requires real accounts", ErrZeroAddress)
	}
	if amount == 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	if l.balances[from] < amount {
		l.mu.Unlock()
		return fmt.Errorf("%w: account %q has %d, needs %d", ErrInsufficientBalance, from, l.balances[from], amount)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	l.mu.Unlock()

	// The hook re-enters the ledger through CurrentBalance, so it runs
	// outside the lock.
	l.hook(from)
	l.hook(to)
	return nil
}

// Mint creates amount out of the zero address into a real account and
// notifies the hook for the receiving side only.
func (l *Ledger) Mint(to voting.Address, amount uint64) error {
	if to.IsZero() {
		return fmt.Errorf("%w: mint requires a real receiver", ErrZeroAddress)
	}
	if amount == 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	l.balances[to] += amount
	l.mu.Unlock()

	l.hook(to)
	return nil
}

// Burn destroys amount from a real account into the zero address and
// notifies the hook for the burning side only.
func (l *Ledger) Burn(from voting.Address, amount uint64) error {
	if from.IsZero() {
		return fmt.Errorf("%w: burn requires a real account", ErrZeroAddress)
	}
	if amount == 0 {
		return ErrZeroAmount
	}

	l.mu.Lock()
	if l.balances[from] < amount {
		l.mu.Unlock()
		return fmt.Errorf("%w: account %q has %d, needs %d", ErrInsufficientBalance, from, l.balances[from], amount)
	}
	l.balances[from] -= amount
	l.mu.Unlock()

	l.hook(from)
	return nil
}
