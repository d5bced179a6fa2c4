package badger

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Key prefixes for namespacing
const (
	keyPrefixTransaction = "tx:"
	keyPrefixClaim       = "claim:"
	keyTrackerState      = "tracker:main"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
)

// BadgerPersistence is a disk-backed persistence implementation using Badger.
// Survives restarts so pending claims are not resubmitted by a fresh process.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerPersistence creates a new Badger-backed persistence layer.
// The database is opened at the specified path with SyncWrites enabled for durability.
// A background goroutine is started for garbage collection.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger persistence initialized", "path", absPath)

	return bp, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

// runGC runs periodic garbage collection in the background
func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(0.5)
			if err != nil && err != badgerdb.ErrNoRewrite {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func transactionKey(hash common.Hash) []byte {
	return []byte(keyPrefixTransaction + strings.ToLower(hash.Hex()))
}

func claimKey(account common.Address) []byte {
	return []byte(keyPrefixClaim + strings.ToLower(account.Hex()))
}

// get reads a single value, returning nil data when the key is absent.
func (b *BadgerPersistence) get(key []byte) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err == badgerdb.ErrKeyNotFound {
			return nil // Not found is not an error
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	return data, err
}

func (b *BadgerPersistence) set(key []byte, data []byte) error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, data)
	})
}

// SaveTransaction persists a transaction record
func (b *BadgerPersistence) SaveTransaction(record *types.TransactionRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil TransactionRecord")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalTransactionRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal TransactionRecord: %w", err)
	}

	return b.set(transactionKey(record.Hash), data)
}

// LoadTransaction retrieves a transaction record
func (b *BadgerPersistence) LoadTransaction(hash common.Hash) (*types.TransactionRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := b.get(transactionKey(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to load TransactionRecord: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	record, err := persistence.UnmarshalTransactionRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal TransactionRecord: %w", err)
	}
	return record, nil
}

// ListTransactions returns all transaction records sorted by AddedAt
func (b *BadgerPersistence) ListTransactions() ([]*types.TransactionRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	records := make([]*types.TransactionRecord, 0)

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixTransaction)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			var data []byte
			err := item.Value(func(val []byte) error {
				data = append([]byte{}, val...)
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}

			record, err := persistence.UnmarshalTransactionRecord(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal TransactionRecord, skipping",
					"key", string(item.Key()), "error", err)
				continue
			}

			records = append(records, record)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list TransactionRecords: %w", err)
	}

	persistence.SortRecords(records)
	return records, nil
}

// ListPendingTransactions returns records still awaiting a receipt
func (b *BadgerPersistence) ListPendingTransactions() ([]*types.TransactionRecord, error) {
	all, err := b.ListTransactions()
	if err != nil {
		return nil, err
	}
	return persistence.FilterPending(all), nil
}

// DeleteTransaction removes a transaction record
func (b *BadgerPersistence) DeleteTransaction(hash common.Hash) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(transactionKey(hash))
	})
}

// SaveClaimState persists the claim lifecycle for an account
func (b *BadgerPersistence) SaveClaimState(state *types.ClaimState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil ClaimState")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalClaimState(state)
	if err != nil {
		return fmt.Errorf("failed to marshal ClaimState: %w", err)
	}

	return b.set(claimKey(state.Account), data)
}

// LoadClaimState retrieves the claim lifecycle for an account
func (b *BadgerPersistence) LoadClaimState(account common.Address) (*types.ClaimState, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := b.get(claimKey(account))
	if err != nil {
		return nil, fmt.Errorf("failed to load ClaimState: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	return persistence.UnmarshalClaimState(data)
}

// SaveTrackerState persists tracker operational state
func (b *BadgerPersistence) SaveTrackerState(state *persistence.TrackerState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil TrackerState")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalTrackerState(state)
	if err != nil {
		return fmt.Errorf("failed to marshal TrackerState: %w", err)
	}

	return b.set([]byte(keyTrackerState), data)
}

// LoadTrackerState retrieves tracker operational state
func (b *BadgerPersistence) LoadTrackerState() (*persistence.TrackerState, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := b.get([]byte(keyTrackerState))
	if err != nil {
		return nil, fmt.Errorf("failed to load TrackerState: %w", err)
	}
	if data == nil {
		return nil, nil // First run
	}

	return persistence.UnmarshalTrackerState(data)
}

// Close shuts down the persistence layer
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil // Already closed, idempotent
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger persistence closed")
	return nil
}

// HealthCheck verifies the persistence layer is operational
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}
