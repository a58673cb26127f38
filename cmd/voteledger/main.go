package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voteledger/voteledger/migrator"
	"github.com/voteledger/voteledger/pkg/logger"
	"github.com/voteledger/voteledger/pkg/pgxdb"
	"github.com/voteledger/voteledger/store/pgxstore"
	"github.com/voteledger/voteledger/token"
	"github.com/voteledger/voteledger/voting"
	"github.com/voteledger/voteledger/web/config"
	"github.com/voteledger/voteledger/web/handler"
)

var (
	version = "dev"
	date    = "unknown"
)

func main() {
	// Load configuration
	cfg := config.New()

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	// Prepare context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.InfoContext(ctx, "Voteledger API Service starting",
		slog.String("version", version),
		slog.String("date", date),
	)

	// Initialize database connection
	db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		log.ErrorContext(ctx, "Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Apply migrations
	log.InfoContext(ctx, "Applying database migrations")
	if err := migrator.ApplyMigrations(db, cfg.MigrationsDir); err != nil {
		log.ErrorContext(ctx, "Failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize the in-memory voting state
	ledger := token.NewLedger()
	votingService := voting.NewService(ledger)
	ledger.RegisterHook(votingService.OnBalanceChanged)
	defer votingService.Close()

	// Initialize the history store
	recorder, recorderCloser := pgxstore.NewRecorder(db)
	defer recorderCloser()

	finder, finderCloser := pgxstore.NewHistoryFinder(db)
	defer finderCloser()

	// Subscribe the recorder and logging to voting events
	subCloser := setupEventHandling(ctx, votingService.Events(), recorder, log)
	defer subCloser()

	// Create HTTP server
	mux := http.NewServeMux()
	handler.NewCreateSnapshot(votingService).AddRoutes(mux)
	handler.NewDelegations(votingService).AddRoutes(mux)
	handler.NewAccountQueries(votingService, ledger).AddRoutes(mux)
	handler.NewTokenOperations(ledger).AddRoutes(mux)
	handler.NewListSnapshots(finder).AddRoutes(mux)
	handler.NewListDelegationEvents(finder).AddRoutes(mux)

	// Wrap with logging middleware
	loggedMux := logger.NewMiddleware(log)(mux)

	// Create server address
	addr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)

	server := &http.Server{
		Addr:    addr,
		Handler: loggedMux,
	}

	// Start server in a goroutine
	go func() {
		log.InfoContext(ctx, "Server started", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.InfoContext(ctx, "Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "Server forced to shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	log.InfoContext(ctx, "Server exited gracefully")
}

// setupEventHandling persists voting events to the history store and logs them
func setupEventHandling(ctx context.Context, events <-chan voting.Event, recorder *pgxstore.Recorder, log *slog.Logger) func() {
	return voting.NewSubscriber(events,
		voting.OnSnapshotCreated(func(event voting.SnapshotCreated) {
			if err := recorder.SaveSnapshot(ctx, event); err != nil {
				log.ErrorContext(ctx, "Failed to record snapshot", slog.Any("error", err))
				return
			}
			log.InfoContext(ctx, "Snapshot created",
				slog.Uint64("snapshotID", event.ID),
				slog.String("createdAt", event.Timestamp.Format(logger.BritishTimeFormat)),
			)
		}),
		voting.OnDelegationEstablished(func(event voting.DelegationEstablished) {
			if err := recorder.SaveDelegationEstablished(ctx, event); err != nil {
				log.ErrorContext(ctx, "Failed to record delegation", slog.Any("error", err))
				return
			}
			log.InfoContext(ctx, "Delegation established",
				slog.String("delegator", string(event.Delegator)),
				slog.String("delegatee", string(event.Delegatee)),
			)
		}),
		voting.OnDelegationRemoved(func(event voting.DelegationRemoved) {
			if err := recorder.SaveDelegationRemoved(ctx, event); err != nil {
				log.ErrorContext(ctx, "Failed to record delegation removal", slog.Any("error", err))
				return
			}
			log.InfoContext(ctx, "Delegation removed",
				slog.String("delegator", string(event.Delegator)),
				slog.String("delegatee", string(event.Delegatee)),
			)
		}),
	)
}
