// Package migrator applies the voteledger database schema and provides
// pgtestdb migrators for tests.
package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/sqlmigrator"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/voteledger/voteledger/pkg/pgxdb"
	"github.com/voteledger/voteledger/store/pgxstore"
	"github.com/voteledger/voteledger/token"
	"github.com/voteledger/voteledger/voting"
)

// Migration constants
const (
	migrationsTableName = "schema_migrations"
	schemaHashPrefix    = "schema_only_"
	seededHashPrefix    = "seeded_demo_"
)

// Migration-related errors
var (
	ErrMigrationExecution = errors.New("migration execution failed")
	ErrSeedingFailed      = errors.New("demo seeding failed")
)

// SchemaMigrator applies only database schema migrations
// Used for production and tests that need schema-only setup
type SchemaMigrator struct {
	migrationsDir string
}

// NewSchemaMigrator creates a migrator that applies schema migrations only
func NewSchemaMigrator(migrationsDir string) *SchemaMigrator {
	return &SchemaMigrator{
		migrationsDir: migrationsDir,
	}
}

func (m *SchemaMigrator) Hash() (string, error) {
	baseHash, err := migrationsHash(m.migrationsDir)
	if err != nil {
		return "", err
	}
	return schemaHashPrefix + baseHash, nil
}

func (m *SchemaMigrator) Migrate(ctx context.Context, db *sql.DB, conf pgtestdb.Config) error {
	return applyMigrations(db, m.migrationsDir)
}

// SeededMigrator applies schema migrations + seeds demo voting history by
// driving a real token ledger and voting service against the database.
// Used for history API tests that need realistic data to query against.
type SeededMigrator struct {
	migrationsDir string
	accounts      int
	snapshots     int
}

// NewSeededMigrator creates a migrator that seeds demo history with the
// given number of accounts and snapshot epochs.
func NewSeededMigrator(migrationsDir string, accounts, snapshots int) *SeededMigrator {
	return &SeededMigrator{
		migrationsDir: migrationsDir,
		accounts:      accounts,
		snapshots:     snapshots,
	}
}

func (m *SeededMigrator) Hash() (string, error) {
	baseHash, err := migrationsHash(m.migrationsDir)
	if err != nil {
		return "", err
	}
	return seededHashPrefix + baseHash + "_" + strconv.Itoa(m.accounts) + "_" + strconv.Itoa(m.snapshots), nil
}

func (m *SeededMigrator) Migrate(ctx context.Context, db *sql.DB, conf pgtestdb.Config) error {
	if err := applyMigrations(db, m.migrationsDir); err != nil {
		return err
	}

	return m.seedDemoHistory(ctx, conf.URL())
}

// seedDemoHistory populates the template database with a realistic event
// stream: every account delegates to its successor, each epoch mints into
// one account and takes a snapshot, and the final account undelegates.
func (m *SeededMigrator) seedDemoHistory(ctx context.Context, dbURL string) error {
	pool, err := pgxdb.NewConnection(ctx, dbURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	recorder, recorderCloser := pgxstore.NewRecorder(pool)
	defer recorderCloser()

	ledger := token.NewLedger()
	svc := voting.NewService(ledger)
	ledger.RegisterHook(svc.OnBalanceChanged)

	var seedErr error
	record := func(err error) {
		if seedErr == nil && err != nil {
			seedErr = err
		}
	}

	subscriberCloser := voting.NewSubscriber(svc.Events(),
		voting.OnSnapshotCreated(func(e voting.SnapshotCreated) {
			record(recorder.SaveSnapshot(ctx, e))
		}),
		voting.OnDelegationEstablished(func(e voting.DelegationEstablished) {
			record(recorder.SaveDelegationEstablished(ctx, e))
		}),
		voting.OnDelegationRemoved(func(e voting.DelegationRemoved) {
			record(recorder.SaveDelegationRemoved(ctx, e))
		}),
	)

	for i := 0; i < m.accounts; i++ {
		delegator := demoAccount(i)
		delegatee := demoAccount((i + 1) % m.accounts)
		if err := svc.Delegate(delegator, delegatee); err != nil {
			record(err)
			break
		}
	}

	for i := 0; i < m.snapshots; i++ {
		caller := demoAccount(i % m.accounts)
		if err := ledger.Mint(caller, uint64(100*(i+1))); err != nil {
			record(err)
			break
		}
		svc.Snapshot(caller)
	}

	if m.accounts > 0 {
		record(svc.Undelegate(demoAccount(m.accounts - 1)))
	}

	svc.Close()
	subscriberCloser()

	if seedErr != nil {
		return fmt.Errorf("%w: %w", ErrSeedingFailed, seedErr)
	}
	return nil
}

func demoAccount(i int) voting.Address {
	return voting.Address("demo-" + strconv.Itoa(i))
}

// ApplyMigrations applies database migrations using sql-migrate with the provided pgx pool
func ApplyMigrations(pool *pgxpool.Pool, migrationsDir string) error {
	// Create sql.DB from the pgx pool for sql-migrate
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return applyMigrations(db, migrationsDir)
}

// migrationsHash calculates the content hash of a migrations directory
func migrationsHash(migrationsDir string) (string, error) {
	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}
	sqlMigrator := sqlmigrator.New(source, migrationSet)

	hash, err := sqlMigrator.Hash()
	if err != nil {
		return "", fmt.Errorf("failed to calculate migration hash for %s: %w", migrationsDir, err)
	}
	return hash, nil
}

// applyMigrations applies database migrations using sql-migrate
func applyMigrations(db *sql.DB, migrationsDir string) error {
	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}

	_, err := migrationSet.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationExecution, err)
	}
	return nil
}
