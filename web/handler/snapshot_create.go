package handler

import (
	"net/http"

	"github.com/voteledger/voteledger/pkg/httpkit"
	"github.com/voteledger/voteledger/voting"
	"github.com/voteledger/voteledger/web/api"
	"github.com/voteledger/voteledger/web/handler/bind"
)

const CreateSnapshotRoute = http.MethodPost + " " + "/v1/snapshots"

// CreateSnapshot handles explicit snapshot requests.
type CreateSnapshot struct {
	svc VotingService
}

func NewCreateSnapshot(svc VotingService) *CreateSnapshot {
	return &CreateSnapshot{svc: svc}
}

func (h *CreateSnapshot) AddRoutes(m *http.ServeMux) {
	m.Handle(CreateSnapshotRoute, httpkit.HandlerFunc(h.Create))
}

func (h *CreateSnapshot) Create(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.SnapshotRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	id := h.svc.Snapshot(voting.Address(req.Caller))

	return httpkit.JSONStatus(http.StatusCreated, api.SnapshotResponse{SnapshotID: id})
}
