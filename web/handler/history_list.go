package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/voteledger/voteledger/pkg/httpkit"
	"github.com/voteledger/voteledger/web/api"
	"github.com/voteledger/voteledger/web/handler/bind"
	"github.com/voteledger/voteledger/web/history"
)

const (
	ListSnapshotsRoute        = http.MethodGet + " " + "/v1/snapshots"
	ListDelegationEventsRoute = http.MethodGet + " " + "/v1/delegations/events"
)

// Sentinel errors
var (
	ErrQueryFailed = errors.New("failed to query history")
)

// ListSnapshots serves recorded snapshot history.
type ListSnapshots struct {
	finder history.SnapshotsFinder
}

func NewListSnapshots(finder history.SnapshotsFinder) *ListSnapshots {
	return &ListSnapshots{
		finder: finder,
	}
}

func (h *ListSnapshots) AddRoutes(m *http.ServeMux) {
	m.Handle(ListSnapshotsRoute, httpkit.HandlerFunc(h.List))
}

func (h *ListSnapshots) List(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.HistoryRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	criteria, err := history.NewSnapshotsCriteria(req.Page, req.PerPage)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	page, err := h.finder.FindSnapshots(r.Context(), criteria)
	if err != nil {
		return httpkit.JsonError(api.InternalServerError(fmt.Errorf("%w: %w", ErrQueryFailed, err)))
	}

	if linkHeader := buildPaginationLinks(page, r.URL); linkHeader != "" {
		w.Header().Set("Link", linkHeader)
	}

	return httpkit.JSON(bind.SnapshotsResponse(page.Snapshots))
}

// ListDelegationEvents serves recorded delegation history.
type ListDelegationEvents struct {
	finder history.DelegationEventsFinder
}

func NewListDelegationEvents(finder history.DelegationEventsFinder) *ListDelegationEvents {
	return &ListDelegationEvents{
		finder: finder,
	}
}

func (h *ListDelegationEvents) AddRoutes(m *http.ServeMux) {
	m.Handle(ListDelegationEventsRoute, httpkit.HandlerFunc(h.List))
}

func (h *ListDelegationEvents) List(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.HistoryRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	criteria, err := history.NewDelegationEventsCriteria(req.Action, req.Page, req.PerPage)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	page, err := h.finder.FindDelegationEvents(r.Context(), criteria)
	if err != nil {
		return httpkit.JsonError(api.InternalServerError(fmt.Errorf("%w: %w", ErrQueryFailed, err)))
	}

	if linkHeader := buildPaginationLinks(page, r.URL); linkHeader != "" {
		w.Header().Set("Link", linkHeader)
	}

	return httpkit.JSON(bind.DelegationEventsResponse(page.Events))
}

// paginated abstracts the navigation metadata both history pages share.
type paginated interface {
	HasNext() bool
	HasPrevious() bool
	PageNumber() history.Page
	PageSize() history.PerPage
}

// buildPaginationLinks creates GitHub-style Link header for pagination navigation
func buildPaginationLinks(page paginated, baseURL *url.URL) string {
	var links []string

	// Build base URL with existing query params (like the action filter)
	u := *baseURL
	query := u.Query()

	if page.HasPrevious() {
		query.Set("page", fmt.Sprintf("%d", page.PageNumber()-1))
		query.Set("per_page", fmt.Sprintf("%d", page.PageSize()))
		u.RawQuery = query.Encode()
		links = append(links, fmt.Sprintf(`<%s>; rel="prev"`, u.String()))
	}

	// rel="next" only when we know there are more pages; rel="first" is
	// redundant and rel="last" would need a count(*) query
	if page.HasNext() {
		query.Set("page", fmt.Sprintf("%d", page.PageNumber()+1))
		query.Set("per_page", fmt.Sprintf("%d", page.PageSize()))
		u.RawQuery = query.Encode()
		links = append(links, fmt.Sprintf(`<%s>; rel="next"`, u.String()))
	}

	return strings.Join(links, ", ")
}
