package pgxstore

import (
	"fmt"

	"github.com/voteledger/voteledger/web/history"
)

// SQL queries
const (
	baseSnapshotsQuery        = "SELECT id, created_at FROM snapshots"
	baseDelegationEventsQuery = "SELECT seq, delegator, delegatee, action, occurred_at FROM delegation_events"
)

// historyQueryBuilder assembles a paged history query. Both history
// tables share the same pagination scheme: newest first, LIMIT n+1 for
// has-more detection.
type historyQueryBuilder struct {
	sql  string
	args []any
}

// newSnapshotsQuery builds the snapshot history query for the criteria.
func newSnapshotsQuery(criteria history.SnapshotsCriteria) *historyQueryBuilder {
	q := &historyQueryBuilder{sql: baseSnapshotsQuery}
	q.sql += " ORDER BY id DESC"
	return q.paginate(criteria.ItemsPerPage(), criteria.ItemsToSkip())
}

// newDelegationEventsQuery builds the delegation history query for the criteria.
func newDelegationEventsQuery(criteria history.DelegationEventsCriteria) *historyQueryBuilder {
	q := &historyQueryBuilder{sql: baseDelegationEventsQuery}
	if !criteria.Action.IsAny() {
		q.addWhereCondition("action = $%d", criteria.Action.String())
	}
	q.sql += " ORDER BY seq DESC"
	return q.paginate(criteria.ItemsPerPage(), criteria.ItemsToSkip())
}

// paginate adds LIMIT/OFFSET with "has more" detection via LIMIT n+1
func (q *historyQueryBuilder) paginate(perPage, skip uint64) *historyQueryBuilder {
	// Request one extra item to detect if there are more pages
	q.addParameter("LIMIT $%d", perPage+1)

	if skip > 0 {
		q.addParameter("OFFSET $%d", skip)
	}
	return q
}

// addWhereCondition adds a WHERE condition with the next placeholder number
func (q *historyQueryBuilder) addWhereCondition(condition string, arg any) {
	q.args = append(q.args, arg)
	q.sql += " WHERE " + fmt.Sprintf(condition, len(q.args))
}

// addParameter appends a clause with the next placeholder number
func (q *historyQueryBuilder) addParameter(clause string, arg any) {
	q.args = append(q.args, arg)
	q.sql += " " + fmt.Sprintf(clause, len(q.args))
}

// Build returns the SQL and arguments
func (q *historyQueryBuilder) Build() (string, []any) {
	return q.sql, q.args
}
