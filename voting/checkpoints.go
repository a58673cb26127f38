package voting

import (
	"fmt"
	"slices"
	"time"
)

// Checkpoint records an account's balance as of one snapshot id.
// Immutable once written, except that the value for a not-yet-started
// epoch may be superseded before the counter reaches it (see Upsert).
type Checkpoint struct {
	ID        uint64
	Value     uint64
	Timestamp time.Time
}

// CheckpointBook keeps one checkpoint log per account, ordered by
// strictly increasing id. Logs are append-only; nothing is ever pruned.
//
// The book itself is not goroutine-safe. The owning Service serializes
// all access behind its own lock.
type CheckpointBook struct {
	logs map[Address][]Checkpoint
}

// NewCheckpointBook creates an empty book.
func NewCheckpointBook() *CheckpointBook {
	return &CheckpointBook{
		logs: make(map[Address][]Checkpoint),
	}
}

// compareCheckpointID orders checkpoints by id for binary search.
func compareCheckpointID(c Checkpoint, id uint64) int {
	switch {
	case c.ID < id:
		return -1
	case c.ID > id:
		return 1
	default:
		return 0
	}
}

// Append inserts a checkpoint, preserving id order.
// Returns ErrDuplicateVersion if the id is already recorded for the account.
func (b *CheckpointBook) Append(account Address, id, value uint64, ts time.Time) error {
	log := b.logs[account]
	pos, found := slices.BinarySearchFunc(log, id, compareCheckpointID)
	if found {
		return fmt.Errorf("%w: account %q id %d", ErrDuplicateVersion, account, id)
	}
	b.logs[account] = slices.Insert(log, pos, Checkpoint{ID: id, Value: value, Timestamp: ts})
	return nil
}

// Upsert records a checkpoint, overwriting the value if the id already
// exists. Balance changes within one not-yet-started snapshot epoch all
// land on the same look-ahead id; the latest value wins.
func (b *CheckpointBook) Upsert(account Address, id, value uint64, ts time.Time) {
	log := b.logs[account]
	pos, found := slices.BinarySearchFunc(log, id, compareCheckpointID)
	if found {
		log[pos].Value = value
		log[pos].Timestamp = ts
		return
	}
	b.logs[account] = slices.Insert(log, pos, Checkpoint{ID: id, Value: value, Timestamp: ts})
}

// Exists reports whether the account has a checkpoint with exactly this id.
func (b *CheckpointBook) Exists(account Address, id uint64) bool {
	_, found := slices.BinarySearchFunc(b.logs[account], id, compareCheckpointID)
	return found
}

// ValueAt returns the value recorded under exactly this id.
// Returns ErrVersionNotFound when there is no exact match; callers that
// want "closest at or before" semantics use LatestBefore instead.
func (b *CheckpointBook) ValueAt(account Address, id uint64) (uint64, error) {
	log := b.logs[account]
	pos, found := slices.BinarySearchFunc(log, id, compareCheckpointID)
	if !found {
		return 0, fmt.Errorf("%w: account %q id %d", ErrVersionNotFound, account, id)
	}
	return log[pos].Value, nil
}

// LatestBefore returns the value of the checkpoint with the greatest
// id <= target, and false when the account has no checkpoint at or
// before that point.
func (b *CheckpointBook) LatestBefore(account Address, target uint64) (uint64, bool) {
	log := b.logs[account]
	pos, found := slices.BinarySearchFunc(log, target, compareCheckpointID)
	if found {
		return log[pos].Value, true
	}
	// pos is the index of the first id strictly greater than target.
	if pos == 0 {
		return 0, false
	}
	return log[pos-1].Value, true
}

// Latest returns the most recent checkpoint for the account, if any.
func (b *CheckpointBook) Latest(account Address) (Checkpoint, bool) {
	log := b.logs[account]
	if len(log) == 0 {
		return Checkpoint{}, false
	}
	return log[len(log)-1], true
}

// History returns a copy of the account's checkpoint log in id order.
func (b *CheckpointBook) History(account Address) []Checkpoint {
	return slices.Clone(b.logs[account])
}
