// Package pgxstore persists the voting event stream to Postgres and
// serves paged history queries over it.
package pgxstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voteledger/voteledger/voting"
)

// Sentinel errors for store operations
var (
	ErrInsertFailed = errors.New("insert operation failed")
	ErrQueryFailed  = errors.New("history query failed")
)

// Recorder writes voting events to the history tables. It is fed by a
// voting.Subscriber; each event maps to exactly one row.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder creates a PostgreSQL event recorder with an existing
// connection pool. Returns the recorder and a closer function.
func NewRecorder(pool *pgxpool.Pool) (*Recorder, func()) {
	recorder := &Recorder{pool: pool}
	closer := func() {
		pool.Close()
	}
	return recorder, closer
}

// SaveSnapshot records an explicit snapshot request.
// Snapshot ids come from a monotonic counter, so a conflict means the
// same event was replayed; the original row wins.
func (r *Recorder) SaveSnapshot(ctx context.Context, event voting.SnapshotCreated) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO snapshots (id, created_at) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, int64(event.ID), event.Timestamp)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}
	return nil
}

// SaveDelegationEstablished records a new delegation.
func (r *Recorder) SaveDelegationEstablished(ctx context.Context, event voting.DelegationEstablished) error {
	return r.saveDelegationEvent(ctx, string(event.Delegator), string(event.Delegatee), "established", event.Timestamp)
}

// SaveDelegationRemoved records a cleared delegation.
func (r *Recorder) SaveDelegationRemoved(ctx context.Context, event voting.DelegationRemoved) error {
	return r.saveDelegationEvent(ctx, string(event.Delegator), string(event.Delegatee), "removed", event.Timestamp)
}

func (r *Recorder) saveDelegationEvent(ctx context.Context, delegator, delegatee, action string, occurredAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO delegation_events (delegator, delegatee, action, occurred_at)
		VALUES ($1, $2, $3, $4)
	`, delegator, delegatee, action, occurredAt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}
	return nil
}
