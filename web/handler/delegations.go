package handler

import (
	"errors"
	"net/http"

	"github.com/voteledger/voteledger/pkg/httpkit"
	"github.com/voteledger/voteledger/voting"
	"github.com/voteledger/voteledger/web/api"
	"github.com/voteledger/voteledger/web/handler/bind"
)

const (
	CreateDelegationRoute = http.MethodPost + " " + "/v1/delegations"
	DeleteDelegationRoute = http.MethodDelete + " " + "/v1/delegations/{delegator}"
)

// Delegations handles delegation lifecycle requests.
type Delegations struct {
	svc VotingService
}

func NewDelegations(svc VotingService) *Delegations {
	return &Delegations{svc: svc}
}

func (h *Delegations) AddRoutes(m *http.ServeMux) {
	m.Handle(CreateDelegationRoute, httpkit.HandlerFunc(h.Create))
	m.Handle(DeleteDelegationRoute, httpkit.HandlerFunc(h.Delete))
}

func (h *Delegations) Create(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.DelegationRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	err = h.svc.Delegate(voting.Address(req.Delegator), voting.Address(req.Delegatee))
	switch {
	case errors.Is(err, voting.ErrInvalidDelegatee):
		return httpkit.JsonError(api.BadRequest(err))
	case errors.Is(err, voting.ErrAlreadyDelegated):
		return httpkit.JsonError(api.Conflict(err))
	case err != nil:
		return httpkit.JsonError(api.InternalServerError(err))
	}

	return httpkit.JSONStatus(http.StatusCreated, req)
}

func (h *Delegations) Delete(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	delegator := r.PathValue("delegator")
	if delegator == "" {
		return httpkit.JsonError(api.BadRequest(bind.ErrMissingDelegator))
	}

	err := h.svc.Undelegate(voting.Address(delegator))
	switch {
	case errors.Is(err, voting.ErrNoDelegation):
		return httpkit.JsonError(api.NotFound(err))
	case err != nil:
		return httpkit.JsonError(api.InternalServerError(err))
	}

	return httpkit.NoContent()
}
