// Package tracker records submitted transactions and settles them against
// receipts as new blocks arrive.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// ReceiptFetcher is satisfied by *ethclient.Client.
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethTypes.Receipt, error)
}

// Metadata is attached to a recorded transaction.
type Metadata struct {
	Summary string
	// ClaimKey groups transactions that must not be submitted twice, e.g.
	// "<account>_claim_airdrop".
	ClaimKey string
}

// SettledFunc is called once a tracked transaction reaches a terminal status,
// and again with status pending if a reorg unsettles it.
type SettledFunc func(record *types.TransactionRecord)

type Tracker struct {
	store    persistence.ITransactionPersistence
	receipts ReceiptFetcher
	logger   *zap.Logger

	mu        sync.Mutex
	listeners []SettledFunc
}

func NewTracker(store persistence.ITransactionPersistence, receipts ReceiptFetcher, logger *zap.Logger) *Tracker {
	return &Tracker{
		store:    store,
		receipts: receipts,
		logger:   logger,
	}
}

// OnSettled registers fn to be called on every status change after submission.
func (t *Tracker) OnSettled(fn SettledFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Record stores a newly submitted transaction as pending.
func (t *Tracker) Record(hash common.Hash, from common.Address, meta Metadata) error {
	record := &types.TransactionRecord{
		Hash:     hash,
		From:     from,
		Summary:  meta.Summary,
		ClaimKey: meta.ClaimKey,
		Status:   types.TxStatus_Pending,
		AddedAt:  time.Now().Unix(),
	}
	if err := t.store.SaveTransaction(record); err != nil {
		return fmt.Errorf("failed to record transaction %s: %w", hash.Hex(), err)
	}

	t.logger.Sugar().Infow("Transaction recorded",
		"hash", hash.Hex(),
		"summary", meta.Summary,
		"claimKey", meta.ClaimKey,
	)
	return nil
}

// IsPending reports whether any unconfirmed transaction is tracked under key.
func (t *Tracker) IsPending(key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	pending, err := t.store.ListPendingTransactions()
	if err != nil {
		return false, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	for _, r := range pending {
		if r.ClaimKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (t *Tracker) Get(hash common.Hash) (*types.TransactionRecord, error) {
	return t.store.LoadTransaction(hash)
}

func (t *Tracker) List() ([]*types.TransactionRecord, error) {
	return t.store.ListTransactions()
}

// LastProcessedBlock returns the last block whose receipts were checked, 0 on first run.
func (t *Tracker) LastProcessedBlock() (uint64, error) {
	state, err := t.store.LoadTrackerState()
	if err != nil {
		return 0, err
	}
	if state == nil {
		return 0, nil
	}
	return state.LastProcessedBlock, nil
}

// HandleBlock checks every pending transaction for a receipt. Status 1 settles a
// transaction as confirmed, any other status as failed; a missing receipt leaves it pending.
func (t *Tracker) HandleBlock(ctx context.Context, blockNumber uint64) error {
	pending, err := t.store.ListPendingTransactions()
	if err != nil {
		return fmt.Errorf("failed to list pending transactions: %w", err)
	}

	for _, record := range pending {
		receipt, err := t.receipts.TransactionReceipt(ctx, record.Hash)
		if errors.Is(err, goethereum.NotFound) {
			continue
		}
		if err != nil {
			t.logger.Sugar().Warnw("Failed to fetch receipt", "hash", record.Hash.Hex(), "error", err)
			continue
		}

		if receipt.Status == ethTypes.ReceiptStatusSuccessful {
			record.Status = types.TxStatus_Confirmed
		} else {
			record.Status = types.TxStatus_Failed
		}
		record.ConfirmedAt = time.Now().Unix()
		if receipt.BlockNumber != nil {
			record.BlockNumber = receipt.BlockNumber.Uint64()
		}

		if err := t.store.SaveTransaction(record); err != nil {
			return fmt.Errorf("failed to save settled transaction %s: %w", record.Hash.Hex(), err)
		}

		settledTransactions.WithLabelValues(string(record.Status)).Inc()
		t.logger.Sugar().Infow("Transaction settled",
			"hash", record.Hash.Hex(),
			"status", record.Status,
			"block", record.BlockNumber,
		)
		t.notify(record)
	}

	lastProcessedBlock.Set(float64(blockNumber))
	return t.store.SaveTrackerState(&persistence.TrackerState{
		LastProcessedBlock: blockNumber,
		UpdatedAt:          time.Now().Unix(),
	})
}

// HandleReorg returns transactions settled at or after blockNumber to pending so
// the next block re-reads their receipts.
func (t *Tracker) HandleReorg(blockNumber uint64) error {
	all, err := t.store.ListTransactions()
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	for _, record := range all {
		if record.IsPending() || record.BlockNumber < blockNumber {
			continue
		}
		record.Status = types.TxStatus_Pending
		record.BlockNumber = 0
		record.ConfirmedAt = 0
		if err := t.store.SaveTransaction(record); err != nil {
			return fmt.Errorf("failed to reset transaction %s: %w", record.Hash.Hex(), err)
		}
		reorgedTransactions.Inc()
		t.logger.Sugar().Warnw("Transaction unsettled by reorg", "hash", record.Hash.Hex(), "reorgBlock", blockNumber)
		t.notify(record)
	}
	return nil
}

func (t *Tracker) notify(record *types.TransactionRecord) {
	t.mu.Lock()
	listeners := append([]SettledFunc(nil), t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		c := *record
		fn(&c)
	}
}
