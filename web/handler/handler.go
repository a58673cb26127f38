// Package handler wires the voting service, token ledger and history
// store into HTTP endpoints.
package handler

import (
	"github.com/voteledger/voteledger/voting"
)

// VotingService is the surface of the voting core the handlers consume.
type VotingService interface {
	Snapshot(caller voting.Address) uint64
	Delegate(delegator, delegatee voting.Address) error
	Undelegate(delegator voting.Address) error
	Resolve(account voting.Address) voting.Address
	BalanceAt(account voting.Address, snapshotID uint64) uint64
	VotingPower(account voting.Address) uint64
	VotingPowerAt(account voting.Address, snapshotID uint64) uint64
	CurrentSnapshotID() uint64
}

// BalanceReader answers live balance queries.
type BalanceReader interface {
	CurrentBalance(account voting.Address) uint64
}

// TokenLedger is the surface of the token ledger the handlers consume.
type TokenLedger interface {
	BalanceReader
	Transfer(from, to voting.Address, amount uint64) error
	Mint(to voting.Address, amount uint64) error
	Burn(from voting.Address, amount uint64) error
}
