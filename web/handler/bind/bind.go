// Package bind converts HTTP requests into API DTOs with validation.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/voteledger/voteledger/web/api"
	"github.com/voteledger/voteledger/web/history"
)

// Sentinel errors for request binding
var (
	ErrInvalidBody      = errors.New("invalid request body")
	ErrMissingCaller    = errors.New("caller is required")
	ErrMissingDelegator = errors.New("delegator is required")
	ErrMissingAccount   = errors.New("account is required")

	// Specific query parameter validation errors
	ErrSnapshotNotNumeric = errors.New("snapshot must be numeric")
	ErrPageNotNumeric     = errors.New("page must be numeric")
	ErrPerPageNotNumeric  = errors.New("per_page must be numeric")
)

// SnapshotRequest binds the body of POST /v1/snapshots
func SnapshotRequest(r *http.Request) (api.SnapshotRequest, error) {
	var req api.SnapshotRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	if req.Caller == "" {
		return req, ErrMissingCaller
	}
	return req, nil
}

// DelegationRequest binds the body of POST /v1/delegations
func DelegationRequest(r *http.Request) (api.DelegationRequest, error) {
	var req api.DelegationRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	if req.Delegator == "" {
		return req, ErrMissingDelegator
	}
	return req, nil
}

// TransferRequest binds the body of POST /v1/transfers
func TransferRequest(r *http.Request) (api.TransferRequest, error) {
	var req api.TransferRequest
	err := decodeJSON(r, &req)
	return req, err
}

// MintRequest binds the body of POST /v1/mint
func MintRequest(r *http.Request) (api.MintRequest, error) {
	var req api.MintRequest
	err := decodeJSON(r, &req)
	return req, err
}

// BurnRequest binds the body of POST /v1/burn
func BurnRequest(r *http.Request) (api.BurnRequest, error) {
	var req api.BurnRequest
	err := decodeJSON(r, &req)
	return req, err
}

// AccountPath binds the {address} path segment of account queries
func AccountPath(r *http.Request) (string, error) {
	account := r.PathValue("address")
	if account == "" {
		return "", ErrMissingAccount
	}
	return account, nil
}

// SnapshotParam binds the optional ?snapshot query parameter.
// Returns ok=false when the parameter is absent (live query).
func SnapshotParam(r *http.Request) (id uint64, ok bool, err error) {
	raw := r.URL.Query().Get("snapshot")
	if raw == "" {
		return 0, false, nil
	}

	id, err = strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q", ErrSnapshotNotNumeric, raw)
	}
	return id, true, nil
}

// HistoryRequest binds the shared query parameters of history endpoints
// with defaults
func HistoryRequest(r *http.Request) (api.HistoryRequest, error) {
	req := api.HistoryRequest{
		Action:  "", // no action filter
		Page:    1,  // Default to first page
		PerPage: 50, // Default pagination size
	}

	query := r.URL.Query()
	req.Action = query.Get("action")

	if pageParam := query.Get("page"); pageParam != "" {
		page, err := strconv.ParseUint(pageParam, 10, 64)
		if err != nil {
			return req, fmt.Errorf("%w: %q", ErrPageNotNumeric, pageParam)
		}
		req.Page = page
	}

	if perPageParam := query.Get("per_page"); perPageParam != "" {
		perPage, err := strconv.ParseUint(perPageParam, 10, 64)
		if err != nil {
			return req, fmt.Errorf("%w: %q", ErrPerPageNotNumeric, perPageParam)
		}
		req.PerPage = perPage
	}

	return req, nil
}

// SnapshotsResponse binds domain snapshots to API response format
func SnapshotsResponse(snapshots []history.Snapshot) api.SnapshotsResponse {
	apiSnapshots := make([]api.Snapshot, len(snapshots))
	for i, snap := range snapshots {
		apiSnapshots[i] = api.Snapshot{
			SnapshotID: snap.ID,
			CreatedAt:  snap.CreatedAt.Format(time.RFC3339),
		}
	}

	return api.SnapshotsResponse{
		Data: apiSnapshots,
	}
}

// DelegationEventsResponse binds domain delegation events to API response format
func DelegationEventsResponse(events []history.DelegationEvent) api.DelegationEventsResponse {
	apiEvents := make([]api.DelegationEvent, len(events))
	for i, evt := range events {
		apiEvents[i] = api.DelegationEvent{
			Delegator:  evt.Delegator,
			Delegatee:  evt.Delegatee,
			Action:     evt.Action.String(),
			OccurredAt: evt.OccurredAt.Format(time.RFC3339),
		}
	}

	return api.DelegationEventsResponse{
		Data: apiEvents,
	}
}

// decodeJSON decodes a JSON body, rejecting unknown fields
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}
