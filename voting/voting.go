package voting

import (
	"errors"
	"time"
)

// Sentinel errors for failure cases
var (
	ErrInvalidDelegatee = errors.New("invalid delegatee")
	ErrAlreadyDelegated = errors.New("delegation already active")
	ErrNoDelegation     = errors.New("no active delegation")
	ErrDuplicateVersion = errors.New("duplicate checkpoint id")
	ErrVersionNotFound  = errors.New("checkpoint not found")
)

// Default configuration values
const (
	DefaultEventBufferSize = 10
)

// Address identifies an account. The zero value is the null account used
// by the ledger to represent token supply creation and destruction; it
// never owns checkpoints and is never a valid delegatee.
type Address string

// ZeroAddress is the null account sentinel.
const ZeroAddress Address = ""

// IsZero reports whether the address is the null account.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Ledger is the balance collaborator. It owns token accounting and is
// queried for live balances whenever a checkpoint is considered.
type Ledger interface {
	CurrentBalance(account Address) uint64
}

// Clock abstracts time for production and testing
type Clock interface {
	Now() time.Time
}

// Event represents a service notification
type Event any

// SnapshotCreated is emitted when an explicit snapshot advances the counter.
type SnapshotCreated struct {
	ID        uint64
	Timestamp time.Time
}

// DelegationEstablished is emitted when a delegation is recorded.
type DelegationEstablished struct {
	Delegator Address
	Delegatee Address
	Timestamp time.Time
}

// DelegationRemoved is emitted when a delegation is cleared.
type DelegationRemoved struct {
	Delegator Address
	Delegatee Address
	Timestamp time.Time
}
