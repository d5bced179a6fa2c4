package persistence

import (
	"sort"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
)

// TrackerState represents operational state of the transaction tracker.
type TrackerState struct {
	// LastProcessedBlock is the last block number whose receipts were checked.
	LastProcessedBlock uint64 `json:"lastProcessedBlock"`

	// UpdatedAt is the Unix timestamp of the last save.
	UpdatedAt int64 `json:"updatedAt"`
}

// SortRecords orders records by AddedAt, breaking ties on hash so listings are stable.
func SortRecords(records []*types.TransactionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].AddedAt != records[j].AddedAt {
			return records[i].AddedAt < records[j].AddedAt
		}
		return records[i].Hash.Hex() < records[j].Hash.Hex()
	})
}

// FilterPending returns only records still awaiting confirmation.
func FilterPending(records []*types.TransactionRecord) []*types.TransactionRecord {
	pending := make([]*types.TransactionRecord, 0, len(records))
	for _, r := range records {
		if r.IsPending() {
			pending = append(pending, r)
		}
	}
	return pending
}
