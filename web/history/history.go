// Package history is the domain layer for querying recorded snapshot and
// delegation history. The live voting state answers "what is true now";
// this package answers "what happened", from the event stream persisted
// by the store.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for criteria construction
var (
	ErrInvalidAction  = errors.New("invalid action")
	ErrInvalidPage    = errors.New("invalid page")
	ErrInvalidPerPage = errors.New("invalid per_page")
)

// Snapshot represents one recorded explicit snapshot request.
type Snapshot struct {
	ID        uint64
	CreatedAt time.Time
}

// DelegationEvent represents one recorded delegation change.
type DelegationEvent struct {
	Seq        int64
	Delegator  string
	Delegatee  string
	Action     Action
	OccurredAt time.Time
}

// SnapshotsFinder defines the interface for querying snapshot history
type SnapshotsFinder interface {
	FindSnapshots(ctx context.Context, criteria SnapshotsCriteria) (*SnapshotsPage, error)
}

// DelegationEventsFinder defines the interface for querying delegation history
type DelegationEventsFinder interface {
	FindDelegationEvents(ctx context.Context, criteria DelegationEventsCriteria) (*DelegationEventsPage, error)
}

// SnapshotsCriteria specifies criteria for querying snapshot history
type SnapshotsCriteria struct {
	Page Page    // 1-based page number
	Size PerPage // Items per page
}

// NewSnapshotsCriteria creates SnapshotsCriteria from uint64 values with validation
func NewSnapshotsCriteria(page, perPage uint64) (SnapshotsCriteria, error) {
	pp, err := ParsePerPageFromUint64(perPage)
	if err != nil {
		return SnapshotsCriteria{}, fmt.Errorf("%w: %w", ErrInvalidPerPage, err)
	}

	return SnapshotsCriteria{
		Page: ParsePageFromUint64(page),
		Size: pp,
	}, nil
}

// ItemsPerPage returns the number of items requested per page
func (c SnapshotsCriteria) ItemsPerPage() uint64 {
	return c.Size.Uint64()
}

// ItemsToSkip returns the number of items to skip for pagination
func (c SnapshotsCriteria) ItemsToSkip() uint64 {
	return (c.Page.Uint64() - 1) * c.Size.Uint64()
}

// DelegationEventsCriteria specifies criteria for querying delegation history
type DelegationEventsCriteria struct {
	Action Action  // Optional action filter; ActionAny means no filtering
	Page   Page    // 1-based page number
	Size   PerPage // Items per page
}

// NewDelegationEventsCriteria creates DelegationEventsCriteria with validation
func NewDelegationEventsCriteria(action string, page, perPage uint64) (DelegationEventsCriteria, error) {
	a, err := ParseAction(action)
	if err != nil {
		return DelegationEventsCriteria{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	pp, err := ParsePerPageFromUint64(perPage)
	if err != nil {
		return DelegationEventsCriteria{}, fmt.Errorf("%w: %w", ErrInvalidPerPage, err)
	}

	return DelegationEventsCriteria{
		Action: a,
		Page:   ParsePageFromUint64(page),
		Size:   pp,
	}, nil
}

// ItemsPerPage returns the number of items requested per page
func (c DelegationEventsCriteria) ItemsPerPage() uint64 {
	return c.Size.Uint64()
}

// ItemsToSkip returns the number of items to skip for pagination
func (c DelegationEventsCriteria) ItemsToSkip() uint64 {
	return (c.Page.Uint64() - 1) * c.Size.Uint64()
}
