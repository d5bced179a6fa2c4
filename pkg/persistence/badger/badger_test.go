package badger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/logger"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadger(t *testing.T, dir string) *BadgerPersistence {
	t.Helper()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	bp, err := NewBadgerPersistence(dir, testLogger)
	require.NoError(t, err)
	return bp
}

func newRecord(hash string, addedAt int64, status types.TxStatus) *types.TransactionRecord {
	return &types.TransactionRecord{
		Hash:     common.HexToHash(hash),
		From:     common.HexToAddress("0xAAA"),
		Summary:  "Claim airdrop",
		ClaimKey: "0xAAA_claim_airdrop",
		Status:   status,
		AddedAt:  addedAt,
	}
}

func TestBadgerPersistence_SaveAndLoadTransaction(t *testing.T) {
	bp := newTestBadger(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	record := newRecord("0x01", 100, types.TxStatus_Pending)
	require.NoError(t, bp.SaveTransaction(record))

	loaded, err := bp.LoadTransaction(record.Hash)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record, loaded)
}

func TestBadgerPersistence_LoadTransaction_NotFound(t *testing.T) {
	bp := newTestBadger(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	loaded, err := bp.LoadTransaction(common.HexToHash("0xdead"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestBadgerPersistence_SaveTransaction_Nil(t *testing.T) {
	bp := newTestBadger(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	err := bp.SaveTransaction(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil TransactionRecord")
}

func TestBadgerPersistence_ListAndDelete(t *testing.T) {
	bp := newTestBadger(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	require.NoError(t, bp.SaveTransaction(newRecord("0x03", 300, types.TxStatus_Pending)))
	require.NoError(t, bp.SaveTransaction(newRecord("0x01", 100, types.TxStatus_Confirmed)))
	require.NoError(t, bp.SaveTransaction(newRecord("0x02", 200, types.TxStatus_Pending)))

	all, err := bp.ListTransactions()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(100), all[0].AddedAt)

	pending, err := bp.ListPendingTransactions()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, common.HexToHash("0x02"), pending[0].Hash)

	require.NoError(t, bp.DeleteTransaction(common.HexToHash("0x02")))
	require.NoError(t, bp.DeleteTransaction(common.HexToHash("0x02")))

	pending, err = bp.ListPendingTransactions()
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestBadgerPersistence_ClaimAndTrackerState(t *testing.T) {
	bp := newTestBadger(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	account := common.HexToAddress("0xAAA")
	loaded, err := bp.LoadClaimState(account)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	state := &types.ClaimState{Account: account, Status: types.ClaimStatus_Failed, Reason: "execution reverted"}
	require.NoError(t, bp.SaveClaimState(state))
	loaded, err = bp.LoadClaimState(account)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	ts, err := bp.LoadTrackerState()
	require.NoError(t, err)
	assert.Nil(t, ts)

	require.NoError(t, bp.SaveTrackerState(&persistence.TrackerState{LastProcessedBlock: 77, UpdatedAt: 5}))
	ts, err = bp.LoadTrackerState()
	require.NoError(t, err)
	assert.Equal(t, uint64(77), ts.LastProcessedBlock)
}

func TestBadgerPersistence_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	bp := newTestBadger(t, dir)
	require.NoError(t, bp.SaveTransaction(newRecord("0x01", 100, types.TxStatus_Pending)))
	require.NoError(t, bp.SaveTrackerState(&persistence.TrackerState{LastProcessedBlock: 9}))
	require.NoError(t, bp.Close())

	bp = newTestBadger(t, dir)
	defer func() { _ = bp.Close() }()

	pending, err := bp.ListPendingTransactions()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	ts, err := bp.LoadTrackerState()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), ts.LastProcessedBlock)
}

func TestBadgerPersistence_CloseAndHealthCheck(t *testing.T) {
	bp := newTestBadger(t, t.TempDir())
	require.NoError(t, bp.HealthCheck())

	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())

	err := bp.HealthCheck()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")

	_, err = bp.LoadTransaction(common.HexToHash("0x01"))
	assert.Error(t, err)
}

func TestBadgerPersistence_ConcurrentWrites(t *testing.T) {
	bp := newTestBadger(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, bp.SaveTransaction(newRecord(fmt.Sprintf("0x%x", i+1), int64(i), types.TxStatus_Pending)))
		}(i)
	}
	wg.Wait()

	all, err := bp.ListTransactions()
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

var _ persistence.ITransactionPersistence = (*BadgerPersistence)(nil)
