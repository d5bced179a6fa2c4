package memory

import (
	"fmt"
	"sync"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// MemoryPersistence is an in-memory implementation of ITransactionPersistence.
//
// All data is stored in memory and will be lost when the process exits, so a
// restarted claimer forgets pending transactions and relies on isClaimed alone.
// Thread-safe using sync.RWMutex for concurrent access.
// Records are copied on the way in and out to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// Transaction records: hash -> record
	transactions map[common.Hash]*types.TransactionRecord

	// Claim states: account -> state
	claims map[common.Address]*types.ClaimState

	trackerState *persistence.TrackerState

	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{
		transactions: make(map[common.Hash]*types.TransactionRecord),
		claims:       make(map[common.Address]*types.ClaimState),
	}
}

// SaveTransaction persists a transaction record.
func (m *MemoryPersistence) SaveTransaction(record *types.TransactionRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil TransactionRecord")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	m.transactions[record.Hash] = copyRecord(record)
	return nil
}

// LoadTransaction retrieves a transaction record by hash.
func (m *MemoryPersistence) LoadTransaction(hash common.Hash) (*types.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	record, exists := m.transactions[hash]
	if !exists {
		return nil, nil // Not found is not an error
	}

	return copyRecord(record), nil
}

// ListTransactions returns all transaction records sorted by AddedAt.
func (m *MemoryPersistence) ListTransactions() ([]*types.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	result := make([]*types.TransactionRecord, 0, len(m.transactions))
	for _, record := range m.transactions {
		result = append(result, copyRecord(record))
	}
	persistence.SortRecords(result)

	return result, nil
}

// ListPendingTransactions returns records still awaiting a receipt.
func (m *MemoryPersistence) ListPendingTransactions() ([]*types.TransactionRecord, error) {
	all, err := m.ListTransactions()
	if err != nil {
		return nil, err
	}
	return persistence.FilterPending(all), nil
}

// DeleteTransaction removes a transaction record.
func (m *MemoryPersistence) DeleteTransaction(hash common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	delete(m.transactions, hash)
	return nil
}

// SaveClaimState persists the claim lifecycle for an account.
func (m *MemoryPersistence) SaveClaimState(state *types.ClaimState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil ClaimState")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	stateCopy := *state
	m.claims[state.Account] = &stateCopy
	return nil
}

// LoadClaimState retrieves the claim lifecycle for an account.
func (m *MemoryPersistence) LoadClaimState(account common.Address) (*types.ClaimState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	state, exists := m.claims[account]
	if !exists {
		return nil, nil
	}

	stateCopy := *state
	return &stateCopy, nil
}

// SaveTrackerState persists tracker operational state.
func (m *MemoryPersistence) SaveTrackerState(state *persistence.TrackerState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil TrackerState")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	stateCopy := *state
	m.trackerState = &stateCopy
	return nil
}

// LoadTrackerState retrieves tracker operational state.
func (m *MemoryPersistence) LoadTrackerState() (*persistence.TrackerState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	// Return nil if no state has been saved yet (first run)
	if m.trackerState == nil {
		return nil, nil
	}

	stateCopy := *m.trackerState
	return &stateCopy, nil
}

// Close marks the persistence layer as closed.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return nil
}

func copyRecord(r *types.TransactionRecord) *types.TransactionRecord {
	c := *r
	return &c
}
