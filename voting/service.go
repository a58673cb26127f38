package voting

import (
	"sync"

	"github.com/voteledger/voteledger/pkg/clock"
)

// Option configures the Service
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithEventBufferSize sets the event channel capacity
func WithEventBufferSize(n int) Option {
	return func(s *Service) { s.events = make(chan Event, n) }
}

// Service owns the snapshot counter, the per-account checkpoint book and
// the delegation registry, and answers balance and voting-power queries
// against them. All mutating operations serialize behind one lock, so no
// two of them ever interleave partially; queries observe a consistent
// state as of the start of the call.
type Service struct {
	mu       sync.RWMutex
	ledger   Ledger
	clock    Clock
	counter  *SnapshotCounter
	book     *CheckpointBook
	registry *DelegationRegistry
	events   chan Event
}

// NewService constructs a Service around the given ledger collaborator.
// By default it uses the system clock and a small event buffer.
func NewService(ledger Ledger, opts ...Option) *Service {
	s := &Service{
		ledger:   ledger,
		clock:    clock.SystemClock{},
		counter:  NewSnapshotCounter(),
		book:     NewCheckpointBook(),
		registry: NewDelegationRegistry(),
		events:   make(chan Event, DefaultEventBufferSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the notification channel. A consumer must drain it (see
// Subscriber); an undrained channel eventually blocks mutating operations.
func (s *Service) Events() <-chan Event {
	return s.events
}

// Close closes the event channel. No mutating operation may be in flight
// or issued afterwards.
func (s *Service) Close() {
	close(s.events)
}

// Snapshot advances the snapshot counter, checkpoints the caller's
// balance under the advanced id, and returns the new snapshot id.
// Only the caller's own account is updated; other accounts keep relying
// on the balance-change trigger.
func (s *Service) Snapshot(caller Address) uint64 {
	s.mu.Lock()
	id := s.counter.Advance()
	now := s.clock.Now()
	s.checkpointIfChanged(caller, id)
	s.mu.Unlock()

	s.events <- SnapshotCreated{ID: id, Timestamp: now}
	return id
}

// OnBalanceChanged is the ledger hook, invoked once per affected account
// on every balance-changing operation. It checkpoints the account's live
// balance under the id of the next, not-yet-started snapshot epoch
// (Current()+1), so a query for the current snapshot never sees the
// change and a query for any later one does. Repeated calls with an
// unchanged balance never grow the log.
func (s *Service) OnBalanceChanged(account Address) {
	if account.IsZero() {
		// the null account represents supply creation/destruction and
		// keeps no checkpoints
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpointIfChanged(account, s.counter.Current()+1)
}

// checkpointIfChanged records the account's live balance under the
// candidate id unless it equals the most recently recorded value.
// Callers must hold the write lock.
func (s *Service) checkpointIfChanged(account Address, id uint64) {
	balance := s.ledger.CurrentBalance(account)
	if last, ok := s.book.Latest(account); ok && last.Value == balance {
		return
	}
	s.book.Upsert(account, id, balance, s.clock.Now())
}

// Delegate redirects the delegator's voting power to the delegatee.
func (s *Service) Delegate(delegator, delegatee Address) error {
	s.mu.Lock()
	err := s.registry.Delegate(delegator, delegatee)
	now := s.clock.Now()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.events <- DelegationEstablished{Delegator: delegator, Delegatee: delegatee, Timestamp: now}
	return nil
}

// Undelegate clears the delegator's active delegation.
func (s *Service) Undelegate(delegator Address) error {
	s.mu.Lock()
	delegatee, err := s.registry.Undelegate(delegator)
	now := s.clock.Now()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.events <- DelegationRemoved{Delegator: delegator, Delegatee: delegatee, Timestamp: now}
	return nil
}

// Resolve returns the effective account for voting-power queries: the
// delegatee when a delegation is active, else the account itself.
func (s *Service) Resolve(account Address) Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Resolve(account)
}

// BalanceAt returns the account's balance as of the given snapshot id:
// the value of the closest checkpoint at or before it, or 0 when the
// account has no recorded history that far back. Never fails.
func (s *Service) BalanceAt(account Address, snapshotID uint64) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, _ := s.book.LatestBefore(account, snapshotID)
	return value
}

// VotingPower returns the live effective voting weight: the resolved
// account's current ledger balance.
func (s *Service) VotingPower(account Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.CurrentBalance(s.registry.Resolve(account))
}

// VotingPowerAt returns the effective voting weight as of the given
// snapshot id. Delegation is resolved against the live mapping even for
// historical queries; past delegation state is not tracked.
func (s *Service) VotingPowerAt(account Address, snapshotID uint64) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, _ := s.book.LatestBefore(s.registry.Resolve(account), snapshotID)
	return value
}

// CurrentSnapshotID returns the latest snapshot id, 0 before any snapshot.
func (s *Service) CurrentSnapshotID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counter.Current()
}

// CheckpointHistory returns a copy of the account's checkpoint log in id
// order. Intended for diagnostics and tests.
func (s *Service) CheckpointHistory(account Address) []Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.History(account)
}
