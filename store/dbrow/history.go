package dbrow

import (
	"time"
)

// Snapshot represents a snapshot record as stored in the database
type Snapshot struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// DelegationEvent represents a delegation event record as stored in the database
type DelegationEvent struct {
	Seq        int64     `db:"seq"`
	Delegator  string    `db:"delegator"`
	Delegatee  string    `db:"delegatee"`
	Action     string    `db:"action"`
	OccurredAt time.Time `db:"occurred_at"`
}
