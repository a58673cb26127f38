package pgxstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voteledger/voteledger/store/dbrow"
	"github.com/voteledger/voteledger/web/history"
)

// HistoryFinder implements the history query interfaces using pgx
type HistoryFinder struct {
	pool *pgxpool.Pool
}

// NewHistoryFinder creates a PostgreSQL history finder with an existing
// connection pool. Returns the finder and a closer function.
func NewHistoryFinder(pool *pgxpool.Pool) (*HistoryFinder, func()) {
	finder := &HistoryFinder{pool: pool}
	closer := func() {
		pool.Close()
	}
	return finder, closer
}

// FindSnapshots queries snapshot history based on the provided criteria,
// newest first. Uses LIMIT n+1 for pagination without a count query.
func (f *HistoryFinder) FindSnapshots(ctx context.Context, criteria history.SnapshotsCriteria) (*history.SnapshotsPage, error) {
	query, args := newSnapshotsQuery(criteria).Build()

	rows, err := f.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	var snapshots []history.Snapshot
	for rows.Next() {
		var dbRow dbrow.Snapshot
		if err := rows.Scan(&dbRow.ID, &dbRow.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan failed: %w", ErrQueryFailed, err)
		}

		snapshots = append(snapshots, history.Snapshot{
			ID:        uint64(dbRow.ID),
			CreatedAt: dbRow.CreatedAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	hasMore := len(snapshots) > int(criteria.Size)
	if hasMore {
		// Remove the extra record we requested to detect "has more"
		snapshots = snapshots[:criteria.Size]
	}

	return &history.SnapshotsPage{
		Snapshots: snapshots,
		HasMore:   hasMore,
		Number:    criteria.Page,
		Size:      criteria.Size,
	}, nil
}

// FindDelegationEvents queries delegation history based on the provided
// criteria, newest first.
func (f *HistoryFinder) FindDelegationEvents(ctx context.Context, criteria history.DelegationEventsCriteria) (*history.DelegationEventsPage, error) {
	query, args := newDelegationEventsQuery(criteria).Build()

	rows, err := f.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	var events []history.DelegationEvent
	for rows.Next() {
		var dbRow dbrow.DelegationEvent
		if err := rows.Scan(&dbRow.Seq, &dbRow.Delegator, &dbRow.Delegatee, &dbRow.Action, &dbRow.OccurredAt); err != nil {
			return nil, fmt.Errorf("%w: scan failed: %w", ErrQueryFailed, err)
		}

		events = append(events, history.DelegationEvent{
			Seq:        dbRow.Seq,
			Delegator:  dbRow.Delegator,
			Delegatee:  dbRow.Delegatee,
			Action:     history.Action(dbRow.Action),
			OccurredAt: dbRow.OccurredAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	hasMore := len(events) > int(criteria.Size)
	if hasMore {
		events = events[:criteria.Size]
	}

	return &history.DelegationEventsPage{
		Events:  events,
		HasMore: hasMore,
		Number:  criteria.Page,
		Size:    criteria.Size,
	}, nil
}
