package submitter

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence/memory"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/providerError"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/testutil"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/tracker"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type rpcError struct {
	code    int
	message string
}

func (e *rpcError) Error() string  { return e.message }
func (e *rpcError) ErrorCode() int { return e.code }

var from = common.HexToAddress("0x0000000000000000000000000000000000000aaa")

func setup(t *testing.T) (*Submitter, *tracker.Tracker, *testutil.RecordingReporter) {
	logger := zaptest.NewLogger(t)
	tr := tracker.NewTracker(memory.NewMemoryPersistence(), testutil.NewFakeEthBackend(1), logger)
	reporter := &testutil.RecordingReporter{}
	return NewSubmitter(tr, reporter, logger), tr, reporter
}

func okEstimate(ctx context.Context) (*contractCaller.GasInfo, error) {
	return &contractCaller.GasInfo{GasPrice: big.NewInt(10), GasLimit: 1000}, nil
}

func request(estimate EstimateFunc, send SendFunc) *Request {
	return &Request{
		Title:    "useClaimAirdropCallback",
		Method:   "claim",
		Args:     []interface{}{"3", from.Hex(), "1000000000000000000"},
		From:     from,
		Summary:  "Claim airdrop",
		ClaimKey: from.Hex() + "_claim_airdrop",
		Estimate: estimate,
		Send:     send,
	}
}

func Test_Submit_Success(t *testing.T) {
	s, tr, reporter := setup(t)

	var usedGas *contractCaller.GasInfo
	tx, err := s.Submit(context.Background(), request(okEstimate, func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
		usedGas = gas
		return ethTypes.NewTx(&ethTypes.LegacyTx{Nonce: 1, GasPrice: gas.GasPrice, Gas: gas.GasLimit}), nil
	}))
	require.NoError(t, err)
	require.NotNil(t, usedGas)
	assert.Equal(t, int64(10), usedGas.GasPrice.Int64())
	assert.Equal(t, uint64(1000), usedGas.GasLimit)

	record, err := tr.Get(tx.Hash())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Claim airdrop", record.Summary)
	assert.Equal(t, from, record.From)

	pending, err := tr.IsPending(from.Hex() + "_claim_airdrop")
	require.NoError(t, err)
	assert.True(t, pending)

	assert.Empty(t, reporter.Events())
}

func Test_Submit_EstimateFailure(t *testing.T) {
	s, tr, reporter := setup(t)

	sent := false
	_, err := s.Submit(context.Background(), request(
		func(ctx context.Context) (*contractCaller.GasInfo, error) {
			return nil, &rpcError{code: 3, message: "execution reverted: Already claimed"}
		},
		func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
			sent = true
			return nil, nil
		},
	))
	require.Error(t, err)
	assert.False(t, sent)

	var pe *providerError.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, providerError.Kind_Revert, pe.Kind)
	assert.Equal(t, "execution reverted: Already claimed", pe.Message)

	events := reporter.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "useClaimAirdropCallback", events[0].Title)
	assert.Equal(t, "claim", events[0].Method)
	assert.Equal(t, "catch-claim", events[0].Category())
	assert.Equal(t, `["3","`+from.Hex()+`","1000000000000000000"]`, events[0].Args)
	assert.Equal(t, "execution reverted: Already claimed", events[0].Message)

	records, err := tr.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_Submit_UserRejected(t *testing.T) {
	s, tr, reporter := setup(t)

	_, err := s.Submit(context.Background(), request(okEstimate, func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
		return nil, providerError.ErrUserRejected
	}))
	require.Error(t, err)
	assert.True(t, providerError.IsUserRejected(err))
	assert.Empty(t, reporter.Events())

	records, err := tr.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_Submit_RejectionCodeFromProvider(t *testing.T) {
	s, _, reporter := setup(t)

	_, err := s.Submit(context.Background(), request(okEstimate, func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
		return nil, errors.Join(errors.New("sign"), &rpcError{code: 4001, message: "User denied transaction signature"})
	}))
	require.Error(t, err)
	assert.True(t, providerError.IsUserRejected(err))
	assert.Empty(t, reporter.Events())
}

func Test_Submit_SendFailureUnknownMessage(t *testing.T) {
	s, _, reporter := setup(t)

	_, err := s.Submit(context.Background(), request(okEstimate, func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
		return nil, errors.New("")
	}))
	require.Error(t, err)

	var pe *providerError.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, providerError.UnknownErrorMessage, pe.Message)
	require.Len(t, reporter.Events(), 1)
}

func Test_Submit_MissingFuncs(t *testing.T) {
	s, _, reporter := setup(t)
	_, err := s.Submit(context.Background(), &Request{Method: "claim"})
	assert.Error(t, err)
	assert.Empty(t, reporter.Events())
}
