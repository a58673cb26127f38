//go:build acceptance

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voteledger/voteledger/migrator/migratortest"
	"github.com/voteledger/voteledger/pkg/logger"
	"github.com/voteledger/voteledger/pkg/pgxdb"
	"github.com/voteledger/voteledger/pkg/voteclient"
	"github.com/voteledger/voteledger/store/pgxstore"
	"github.com/voteledger/voteledger/token"
	"github.com/voteledger/voteledger/voting"
	"github.com/voteledger/voteledger/web/handler"
	"github.com/voteledger/voteledger/web/testcfg"
)

const (
	seededAccounts  = 5
	seededSnapshots = 3
	// seeding delegates every account to its successor and undelegates the
	// last one, so the event stream holds accounts+1 entries
	seededDelegationEvents = seededAccounts + 1
)

// TestWebAPIAcceptanceBehavior tests end-to-end web API functionality
func TestWebAPIAcceptanceBehavior(t *testing.T) {
	t.Parallel()

	// One shared seeded database for the read-only history subtests
	sharedTestDB := migratortest.CreateSeededTestDatabase(t, "../migrations", seededAccounts, seededSnapshots)
	t.Cleanup(func() {
		sharedTestDB.Close()
	})

	dbConnString := sharedTestDB.Config().ConnString()

	t.Run("it lists seeded snapshots most recent first", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server, cleanup := createTestServer(t, dbConnString)
		defer cleanup()
		client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

		// Act
		resp, err := client.ListSnapshots(t.Context(), 1, 50)

		// Assert
		require.NoError(t, err)
		require.Len(t, resp.Data, seededSnapshots)
		assert.Equal(t, uint64(seededSnapshots), resp.Data[0].SnapshotID)
		assert.Equal(t, uint64(1), resp.Data[len(resp.Data)-1].SnapshotID)
	})

	t.Run("it lists seeded delegation events with the removal last recorded", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server, cleanup := createTestServer(t, dbConnString)
		defer cleanup()
		client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

		// Act
		resp, err := client.ListDelegationEvents(t.Context(), "", 1, 50)

		// Assert
		require.NoError(t, err)
		require.Len(t, resp.Data, seededDelegationEvents)
		assert.Equal(t, "removed", resp.Data[0].Action)
	})

	t.Run("it filters delegation events by action", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server, cleanup := createTestServer(t, dbConnString)
		defer cleanup()
		client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

		// Act
		resp, err := client.ListDelegationEvents(t.Context(), "established", 1, 50)

		// Assert
		require.NoError(t, err)
		require.Len(t, resp.Data, seededAccounts)
		for i, event := range resp.Data {
			assert.Equal(t, "established", event.Action, "event %d should be an establishment", i)
		}
	})

	t.Run("it provides GitHub-style pagination Link headers", func(t *testing.T) {
		t.Parallel()

		t.Run("it provides next link on first page when more pages exist", func(t *testing.T) {
			t.Parallel()

			// Arrange
			server, cleanup := createTestServer(t, dbConnString)
			defer cleanup()

			// Act
			resp := getRaw(t, server, "/v1/delegations/events?page=1&per_page=2")

			// Assert
			linkHeader := resp.Header.Get("Link")
			assert.Contains(t, linkHeader, `rel="next"`)
			assert.NotContains(t, linkHeader, `rel="prev"`)
		})

		t.Run("it provides navigation links on middle pages", func(t *testing.T) {
			t.Parallel()

			// Arrange
			server, cleanup := createTestServer(t, dbConnString)
			defer cleanup()

			// Act
			resp := getRaw(t, server, "/v1/delegations/events?page=2&per_page=2")

			// Assert
			linkHeader := resp.Header.Get("Link")
			assert.Contains(t, linkHeader, `rel="next"`)
			assert.Contains(t, linkHeader, `rel="prev"`)
			assert.Contains(t, linkHeader, "page=1")
			assert.Contains(t, linkHeader, "page=3")
		})

		t.Run("it preserves the action filter in pagination links", func(t *testing.T) {
			t.Parallel()

			// Arrange
			server, cleanup := createTestServer(t, dbConnString)
			defer cleanup()

			// Act
			resp := getRaw(t, server, "/v1/delegations/events?action=established&page=1&per_page=2")

			// Assert
			linkHeader := resp.Header.Get("Link")
			assert.NotEmpty(t, linkHeader)
			assert.Contains(t, linkHeader, "action=established")
		})

		t.Run("it omits Link header when results fit on one page", func(t *testing.T) {
			t.Parallel()

			// Arrange
			server, cleanup := createTestServer(t, dbConnString)
			defer cleanup()

			// Act
			resp := getRaw(t, server, "/v1/snapshots?per_page=50")

			// Assert
			assert.Empty(t, resp.Header.Get("Link"))
		})
	})

	t.Run("it records snapshots taken through the API", func(t *testing.T) {
		t.Parallel()

		// Arrange - isolated schema-only database so recorded history starts empty
		cleanTestDB := migratortest.CreateSchemaTestDatabase(t, "../migrations")
		t.Cleanup(func() {
			cleanTestDB.Close()
		})

		server, cleanup := createTestServer(t, cleanTestDB.Config().ConnString())
		defer cleanup()
		client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

		require.NoError(t, client.Mint(t.Context(), "alice", 100))

		// Act
		snapshotID, err := client.CreateSnapshot(t.Context(), "alice")
		require.NoError(t, err)

		// Assert - the recorder persists asynchronously
		assert.Equal(t, uint64(1), snapshotID)
		require.Eventually(t, func() bool {
			resp, err := client.ListSnapshots(t.Context(), 1, 50)
			return err == nil && len(resp.Data) == 1 && resp.Data[0].SnapshotID == snapshotID
		}, 5*time.Second, 50*time.Millisecond, "snapshot should appear in recorded history")

		balance, err := client.Balance(t.Context(), "alice", snapshotID)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), balance.Balance)
	})

	t.Run("it records delegation changes through the API", func(t *testing.T) {
		t.Parallel()

		// Arrange
		cleanTestDB := migratortest.CreateSchemaTestDatabase(t, "../migrations")
		t.Cleanup(func() {
			cleanTestDB.Close()
		})

		server, cleanup := createTestServer(t, cleanTestDB.Config().ConnString())
		defer cleanup()
		client := voteclient.NewClientWithHTTP(server.Client(), server.URL)

		require.NoError(t, client.Mint(t.Context(), "bob", 500))
		require.NoError(t, client.Delegate(t.Context(), "alice", "bob"))

		// Act
		power, err := client.VotingPower(t.Context(), "alice", voteclient.LiveSnapshot)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "bob", power.EffectiveAccount)
		assert.Equal(t, uint64(500), power.VotingPower)

		require.Eventually(t, func() bool {
			resp, err := client.ListDelegationEvents(t.Context(), "established", 1, 50)
			return err == nil && len(resp.Data) == 1 && resp.Data[0].Delegatee == "bob"
		}, 5*time.Second, 50*time.Millisecond, "delegation should appear in recorded history")
	})
}

// createTestServer wires the full production stack against the given
// database: in-memory voting state, history recorder and finder, logging
// middleware.
func createTestServer(t *testing.T, dbConnString string) (*httptest.Server, func()) {
	t.Helper()

	storeConn, err := pgxdb.NewConnection(t.Context(), dbConnString)
	require.NoError(t, err)

	recorder, recorderCloser := pgxstore.NewRecorder(storeConn)
	finder, finderCloser := pgxstore.NewHistoryFinder(storeConn)

	ledger := token.NewLedger()
	svc := voting.NewService(ledger)
	ledger.RegisterHook(svc.OnBalanceChanged)

	subCloser := voting.NewSubscriber(svc.Events(),
		voting.OnSnapshotCreated(func(e voting.SnapshotCreated) {
			_ = recorder.SaveSnapshot(t.Context(), e)
		}),
		voting.OnDelegationEstablished(func(e voting.DelegationEstablished) {
			_ = recorder.SaveDelegationEstablished(t.Context(), e)
		}),
		voting.OnDelegationRemoved(func(e voting.DelegationRemoved) {
			_ = recorder.SaveDelegationRemoved(t.Context(), e)
		}),
	)

	mux := http.NewServeMux()
	handler.NewCreateSnapshot(svc).AddRoutes(mux)
	handler.NewDelegations(svc).AddRoutes(mux)
	handler.NewAccountQueries(svc, ledger).AddRoutes(mux)
	handler.NewTokenOperations(ledger).AddRoutes(mux)
	handler.NewListSnapshots(finder).AddRoutes(mux)
	handler.NewListDelegationEvents(finder).AddRoutes(mux)

	// Logging middleware for SUT observability (like production)
	testCfg := testcfg.New()
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         testCfg.LogLevel,
		LogHumanFriendly: testCfg.LogHumanFriendly,
	})
	loggedMux := logger.NewMiddleware(log)(mux)

	server := httptest.NewServer(loggedMux)

	cleanup := func() {
		server.Close()
		svc.Close()
		subCloser()
		recorderCloser()
		finderCloser()
	}

	return server, cleanup
}

// getRaw performs a GET request and returns the raw response for header checks
func getRaw(t *testing.T, server *httptest.Server, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL+path, nil)
	require.NoError(t, err)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}
