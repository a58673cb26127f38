package voteclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voteledger/voteledger/pkg/voteclient"
	"github.com/voteledger/voteledger/web/api"
)

func TestClientCreatesSnapshot(t *testing.T) {
	t.Parallel()

	// Arrange
	var gotBody api.SnapshotRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/snapshots", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		writeJSON(t, w, http.StatusCreated, api.SnapshotResponse{SnapshotID: 7})
	}))
	defer server.Close()

	client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

	// Act
	id, err := client.CreateSnapshot(context.Background(), "alice")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.Equal(t, "alice", gotBody.Caller)
}

func TestClientQueriesHistoricalBalance(t *testing.T) {
	t.Parallel()

	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/accounts/alice/balance", r.URL.Path)
		require.Equal(t, "3", r.URL.Query().Get("snapshot"))

		writeJSON(t, w, http.StatusOK, api.BalanceResponse{Account: "alice", SnapshotID: 3, Balance: 100})
	}))
	defer server.Close()

	client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

	// Act
	resp, err := client.Balance(context.Background(), "alice", 3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(100), resp.Balance)
	assert.Equal(t, uint64(3), resp.SnapshotID)
}

func TestClientOmitsSnapshotParamForLiveQueries(t *testing.T) {
	t.Parallel()

	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.False(t, r.URL.Query().Has("snapshot"), "live query should not send a snapshot parameter")

		writeJSON(t, w, http.StatusOK, api.VotingPowerResponse{Account: "alice", EffectiveAccount: "alice", VotingPower: 42})
	}))
	defer server.Close()

	client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

	// Act
	resp, err := client.VotingPower(context.Background(), "alice", voteclient.LiveSnapshot)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(42), resp.VotingPower)
}

func TestClientListsDelegationEventsWithActionFilter(t *testing.T) {
	t.Parallel()

	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/delegations/events", r.URL.Path)
		require.Equal(t, "established", r.URL.Query().Get("action"))
		require.Equal(t, "2", r.URL.Query().Get("page"))

		writeJSON(t, w, http.StatusOK, api.DelegationEventsResponse{
			Data: []api.DelegationEvent{
				{Delegator: "alice", Delegatee: "bob", Action: "established", OccurredAt: "2026-01-01T00:00:00Z"},
			},
		})
	}))
	defer server.Close()

	client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

	// Act
	resp, err := client.ListDelegationEvents(context.Background(), "established", 2, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "bob", resp.Data[0].Delegatee)
}

func TestClientSurfacesAPIErrorMessages(t *testing.T) {
	t.Parallel()

	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]any{
			"code":    http.StatusConflict,
			"message": "delegation already exists",
		})
	}))
	defer server.Close()

	client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

	// Act
	err := client.Delegate(context.Background(), "alice", "bob")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "delegation already exists")
}

func TestClientUndelegateAcceptsNoContent(t *testing.T) {
	t.Parallel()

	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/v1/delegations/alice", r.URL.Path)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

	// Act
	err := client.Undelegate(context.Background(), "alice")

	// Assert
	require.NoError(t, err)
}

// writeJSON writes the given payload as a JSON response
func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}
