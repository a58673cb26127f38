package handler

import (
	"errors"
	"net/http"

	"github.com/voteledger/voteledger/pkg/httpkit"
	"github.com/voteledger/voteledger/token"
	"github.com/voteledger/voteledger/voting"
	"github.com/voteledger/voteledger/web/api"
	"github.com/voteledger/voteledger/web/handler/bind"
)

const (
	CreateTransferRoute = http.MethodPost + " " + "/v1/transfers"
	CreateMintRoute     = http.MethodPost + " " + "/v1/mint"
	CreateBurnRoute     = http.MethodPost + " " + "/v1/burn"
)

// TokenOperations handles balance-changing ledger requests. Every
// successful operation drives the voting checkpoint trigger through the
// ledger's hook.
type TokenOperations struct {
	ledger TokenLedger
}

func NewTokenOperations(ledger TokenLedger) *TokenOperations {
	return &TokenOperations{ledger: ledger}
}

func (h *TokenOperations) AddRoutes(m *http.ServeMux) {
	m.Handle(CreateTransferRoute, httpkit.HandlerFunc(h.Transfer))
	m.Handle(CreateMintRoute, httpkit.HandlerFunc(h.Mint))
	m.Handle(CreateBurnRoute, httpkit.HandlerFunc(h.Burn))
}

func (h *TokenOperations) Transfer(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.TransferRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	err = h.ledger.Transfer(voting.Address(req.From), voting.Address(req.To), req.Amount)
	if handler := classifyLedgerError(err); handler != nil {
		return handler
	}

	return httpkit.JSONStatus(http.StatusCreated, req)
}

func (h *TokenOperations) Mint(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.MintRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	err = h.ledger.Mint(voting.Address(req.To), req.Amount)
	if handler := classifyLedgerError(err); handler != nil {
		return handler
	}

	return httpkit.JSONStatus(http.StatusCreated, req)
}

func (h *TokenOperations) Burn(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.BurnRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	err = h.ledger.Burn(voting.Address(req.From), req.Amount)
	if handler := classifyLedgerError(err); handler != nil {
		return handler
	}

	return httpkit.JSONStatus(http.StatusCreated, req)
}

// classifyLedgerError maps ledger failures to API errors, nil when the
// operation succeeded
func classifyLedgerError(err error) http.HandlerFunc {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, token.ErrZeroAddress), errors.Is(err, token.ErrZeroAmount):
		return httpkit.JsonError(api.BadRequest(err))
	case errors.Is(err, token.ErrInsufficientBalance):
		return httpkit.JsonError(api.Conflict(err))
	default:
		return httpkit.JsonError(api.InternalServerError(err))
	}
}
