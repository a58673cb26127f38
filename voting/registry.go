package voting

import "fmt"

// DelegationRegistry maps delegators to delegatees, one hop only.
// A delegatee's own voting power is never redirected further by this
// structure.
//
// Not goroutine-safe on its own; the owning Service serializes access.
type DelegationRegistry struct {
	delegatees map[Address]Address
}

// NewDelegationRegistry creates an empty registry.
func NewDelegationRegistry() *DelegationRegistry {
	return &DelegationRegistry{
		delegatees: make(map[Address]Address),
	}
}

// Delegate records delegator -> delegatee.
// Returns ErrInvalidDelegatee for the zero address or self-delegation,
// and ErrAlreadyDelegated when a mapping is already active; the existing
// mapping must be removed first.
func (r *DelegationRegistry) Delegate(delegator, delegatee Address) error {
	if delegatee.IsZero() {
		return fmt.Errorf("%w: zero address", ErrInvalidDelegatee)
	}
	if delegatee == delegator {
		return fmt.Errorf("%w: self-delegation", ErrInvalidDelegatee)
	}
	if _, ok := r.delegatees[delegator]; ok {
		return fmt.Errorf("%w: delegator %q", ErrAlreadyDelegated, delegator)
	}
	r.delegatees[delegator] = delegatee
	return nil
}

// Undelegate removes the delegator's mapping and returns the delegatee
// it pointed to. Returns ErrNoDelegation when none is active.
func (r *DelegationRegistry) Undelegate(delegator Address) (Address, error) {
	delegatee, ok := r.delegatees[delegator]
	if !ok {
		return ZeroAddress, fmt.Errorf("%w: delegator %q", ErrNoDelegation, delegator)
	}
	delete(r.delegatees, delegator)
	return delegatee, nil
}

// Resolve returns the account whose balance counts for the given
// account's voting power: the delegatee when a delegation is active,
// otherwise the account itself.
func (r *DelegationRegistry) Resolve(account Address) Address {
	if delegatee, ok := r.delegatees[account]; ok {
		return delegatee
	}
	return account
}
