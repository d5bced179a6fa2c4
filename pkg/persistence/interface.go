package persistence

import (
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// ITransactionPersistence defines the interface for persisting submitted transactions
// and claim progress across restarts.
// All implementations must be thread-safe as the tracker and the claim controller
// write concurrently.
//
// The interface supports:
// - Transaction records (save, load, list, delete)
// - Per-account claim state (the advisory local lifecycle)
// - Tracker operational state (last processed block)
// - Lifecycle management (close, health check)
type ITransactionPersistence interface {
	// Transaction Records

	// SaveTransaction persists a transaction record keyed by its hash.
	// Overwrites any existing record with the same hash.
	SaveTransaction(record *types.TransactionRecord) error

	// LoadTransaction retrieves a transaction record by hash.
	// Returns nil if the record doesn't exist, error only on storage failure.
	LoadTransaction(hash common.Hash) (*types.TransactionRecord, error)

	// ListTransactions returns all records sorted by AddedAt (ascending).
	// Returns empty slice if no records exist, error only on storage failure.
	ListTransactions() ([]*types.TransactionRecord, error)

	// ListPendingTransactions returns records still awaiting a receipt, sorted by AddedAt.
	ListPendingTransactions() ([]*types.TransactionRecord, error)

	// DeleteTransaction removes a transaction record.
	// Idempotent - returns nil if the record doesn't exist.
	DeleteTransaction(hash common.Hash) error

	// Claim State

	// SaveClaimState persists the local claim lifecycle for an account.
	SaveClaimState(state *types.ClaimState) error

	// LoadClaimState retrieves the claim lifecycle for an account.
	// Returns nil if nothing was saved, error only on storage failure.
	LoadClaimState(account common.Address) (*types.ClaimState, error)

	// Tracker Operational State

	// SaveTrackerState persists tracker state. Overwrites any existing state.
	SaveTrackerState(state *TrackerState) error

	// LoadTrackerState retrieves tracker state.
	// Returns nil state if none exists (first run), error only on storage failure.
	LoadTrackerState() (*TrackerState, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations should return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	// Returns nil if healthy, error describing the problem if not.
	HealthCheck() error
}
