package handler

import (
	"net/http"

	"github.com/voteledger/voteledger/pkg/httpkit"
	"github.com/voteledger/voteledger/voting"
	"github.com/voteledger/voteledger/web/api"
	"github.com/voteledger/voteledger/web/handler/bind"
)

const (
	GetBalanceRoute     = http.MethodGet + " " + "/v1/accounts/{address}/balance"
	GetVotingPowerRoute = http.MethodGet + " " + "/v1/accounts/{address}/voting-power"
)

// AccountQueries answers balance and voting-power queries, live or as of
// a historical snapshot. Queries never fail on absent history; they
// return 0 instead.
type AccountQueries struct {
	svc    VotingService
	ledger BalanceReader
}

func NewAccountQueries(svc VotingService, ledger BalanceReader) *AccountQueries {
	return &AccountQueries{svc: svc, ledger: ledger}
}

func (h *AccountQueries) AddRoutes(m *http.ServeMux) {
	m.Handle(GetBalanceRoute, httpkit.HandlerFunc(h.GetBalance))
	m.Handle(GetVotingPowerRoute, httpkit.HandlerFunc(h.GetVotingPower))
}

func (h *AccountQueries) GetBalance(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	account, err := bind.AccountPath(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	snapshotID, historical, err := bind.SnapshotParam(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	resp := api.BalanceResponse{Account: account}
	if historical {
		resp.SnapshotID = snapshotID
		resp.Balance = h.svc.BalanceAt(voting.Address(account), snapshotID)
	} else {
		resp.Balance = h.ledger.CurrentBalance(voting.Address(account))
	}

	return httpkit.JSON(resp)
}

func (h *AccountQueries) GetVotingPower(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	account, err := bind.AccountPath(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	snapshotID, historical, err := bind.SnapshotParam(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	resp := api.VotingPowerResponse{
		Account:          account,
		EffectiveAccount: string(h.svc.Resolve(voting.Address(account))),
	}
	if historical {
		resp.SnapshotID = snapshotID
		resp.VotingPower = h.svc.VotingPowerAt(voting.Address(account), snapshotID)
	} else {
		resp.VotingPower = h.svc.VotingPower(voting.Address(account))
	}

	return httpkit.JSON(resp)
}
