package api

// SnapshotRequest represents the body for POST /v1/snapshots
type SnapshotRequest struct {
	Caller string `json:"caller"`
}

// SnapshotResponse represents the response for POST /v1/snapshots
type SnapshotResponse struct {
	SnapshotID uint64 `json:"snapshot_id"`
}

// DelegationRequest represents the body for POST /v1/delegations
type DelegationRequest struct {
	Delegator string `json:"delegator"`
	Delegatee string `json:"delegatee"`
}

// BalanceResponse represents the response for account balance queries
type BalanceResponse struct {
	Account    string `json:"account"`
	SnapshotID uint64 `json:"snapshot_id,omitempty"` // 0 when querying the live balance
	Balance    uint64 `json:"balance"`
}

// VotingPowerResponse represents the response for voting-power queries
type VotingPowerResponse struct {
	Account          string `json:"account"`
	EffectiveAccount string `json:"effective_account"`
	SnapshotID       uint64 `json:"snapshot_id,omitempty"` // 0 when querying live power
	VotingPower      uint64 `json:"voting_power"`
}

// TransferRequest represents the body for POST /v1/transfers
type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// MintRequest represents the body for POST /v1/mint
type MintRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// BurnRequest represents the body for POST /v1/burn
type BurnRequest struct {
	From   string `json:"from"`
	Amount uint64 `json:"amount"`
}

// HistoryRequest represents the shared query parameters for history endpoints
type HistoryRequest struct {
	Action  string `query:"action"`   // Optional delegation action filter
	Page    uint64 `query:"page"`     // Page number for pagination (default: 1)
	PerPage uint64 `query:"per_page"` // Number of items per page (default: 50, max: 100)
}

// Snapshot represents a recorded snapshot in history responses
type Snapshot struct {
	SnapshotID uint64 `json:"snapshot_id"`
	CreatedAt  string `json:"created_at"`
}

// SnapshotsResponse represents the response for GET /v1/snapshots
type SnapshotsResponse struct {
	Data []Snapshot `json:"data"`
}

// DelegationEvent represents a recorded delegation change in history responses
type DelegationEvent struct {
	Delegator  string `json:"delegator"`
	Delegatee  string `json:"delegatee"`
	Action     string `json:"action"`
	OccurredAt string `json:"occurred_at"`
}

// DelegationEventsResponse represents the response for GET /v1/delegations/events
type DelegationEventsResponse struct {
	Data []DelegationEvent `json:"data"`
}
