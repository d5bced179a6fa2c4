package eligibility

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/logger"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accountA = common.HexToAddress("0x0000000000000000000000000000000000000AAA")
	accountB = common.HexToAddress("0x0000000000000000000000000000000000000BBB")
)

type gatedResponse struct {
	proof *types.MerkleProof
	err   error
}

// gatedFetcher holds each lookup until the test releases it.
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[common.Address]chan gatedResponse
	calls map[common.Address]int
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		gates: make(map[common.Address]chan gatedResponse),
		calls: make(map[common.Address]int),
	}
}

func (f *gatedFetcher) gate(account common.Address) chan gatedResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[account]
	if !ok {
		g = make(chan gatedResponse, 1)
		f.gates[account] = g
	}
	return g
}

func (f *gatedFetcher) GetProof(ctx context.Context, account common.Address) (*types.MerkleProof, error) {
	f.mu.Lock()
	f.calls[account]++
	f.mu.Unlock()

	resp := <-f.gate(account)
	return resp.proof, resp.err
}

func (f *gatedFetcher) release(account common.Address, proof *types.MerkleProof, err error) {
	f.gate(account) <- gatedResponse{proof: proof, err: err}
}

func (f *gatedFetcher) callCount(account common.Address) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[account]
}

func proofFor(account common.Address, amount int64) *types.MerkleProof {
	return &types.MerkleProof{
		Index:   3,
		Account: account,
		Amount:  big.NewInt(amount),
		Proof:   [][32]byte{{0x11}, {0x22}},
	}
}

func newTestResolver(t *testing.T, f ProofFetcher) *Resolver {
	t.Helper()
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)
	return NewResolver(f, l)
}

func awaitResolution(t *testing.T, r *Resolver) (*Resolution, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.Await(ctx)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		proof     *types.MerkleProof
		whitelist bool
		amount    int64
	}{
		{name: "no record", proof: nil, whitelist: false, amount: 0},
		{name: "zero amount", proof: proofFor(accountA, 0), whitelist: false, amount: 0},
		{name: "positive amount", proof: proofFor(accountA, 1e18), whitelist: true, amount: 1e18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.proof)
			assert.Equal(t, tt.whitelist, res.IsWhitelisted)
			assert.Equal(t, tt.amount, res.Amount.Int64())
		})
	}
}

func TestResolver_NoAccountIsUnknown(t *testing.T) {
	f := newGatedFetcher()
	r := newTestResolver(t, f)

	assert.Nil(t, r.Result())

	r.SetAccount(context.Background(), nil)
	assert.Nil(t, r.Result())
	assert.Nil(t, r.Account())
	assert.False(t, r.Loading())
	assert.Equal(t, 0, f.callCount(accountA))
}

func TestResolver_Whitelisted(t *testing.T) {
	f := newGatedFetcher()
	r := newTestResolver(t, f)

	r.SetAccount(context.Background(), &accountA)
	assert.Nil(t, r.Result(), "result must be unknown while in flight")
	assert.True(t, r.Loading())

	f.release(accountA, proofFor(accountA, 1e18), nil)
	res, err := awaitResolution(t, r)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Result.IsWhitelisted)
	assert.Equal(t, accountA, res.Account)
	require.NotNil(t, res.Proof)
	assert.Equal(t, uint64(3), res.Proof.Index)
}

func TestResolver_NoRecordAndZeroAmount(t *testing.T) {
	tests := []struct {
		name  string
		proof *types.MerkleProof
	}{
		{name: "no record", proof: nil},
		{name: "zero amount", proof: proofFor(accountA, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGatedFetcher()
			r := newTestResolver(t, f)

			r.SetAccount(context.Background(), &accountA)
			f.release(accountA, tt.proof, nil)

			res, err := awaitResolution(t, r)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.False(t, res.Result.IsWhitelisted)
			assert.Nil(t, res.Proof)
		})
	}
}

func TestResolver_FailureDegradesToUnknown(t *testing.T) {
	f := newGatedFetcher()
	r := newTestResolver(t, f)

	r.SetAccount(context.Background(), &accountA)
	f.release(accountA, nil, errors.New("connection refused"))

	res, err := awaitResolution(t, r)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Nil(t, r.Result())
}

func TestResolver_SameAccountRetriesAfterFailure(t *testing.T) {
	f := newGatedFetcher()
	r := newTestResolver(t, f)
	ctx := context.Background()

	r.SetAccount(ctx, &accountA)
	f.release(accountA, nil, errors.New("transient 502"))
	_, err := awaitResolution(t, r)
	require.Error(t, err)

	same := accountA
	r.SetAccount(ctx, &same)
	assert.True(t, r.Loading())
	f.release(accountA, proofFor(accountA, 5), nil)

	res, err := awaitResolution(t, r)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Result.IsWhitelisted)
	assert.Equal(t, 2, f.callCount(accountA))

	// a settled answer is not fetched again
	r.SetAccount(ctx, &same)
	assert.False(t, r.Loading())
	assert.Equal(t, 2, f.callCount(accountA))
}

func TestResolver_StaleResponseDiscarded(t *testing.T) {
	f := newGatedFetcher()
	r := newTestResolver(t, f)
	ctx := context.Background()

	r.SetAccount(ctx, &accountA)
	r.SetAccount(ctx, &accountB)
	assert.Nil(t, r.Result(), "switching accounts clears the previous result")

	f.release(accountB, nil, nil)
	res, err := awaitResolution(t, r)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, accountB, res.Account)
	assert.False(t, res.Result.IsWhitelisted)

	// A's late positive answer must not overwrite B's result
	f.release(accountA, proofFor(accountA, 1e18), nil)
	require.Eventually(t, func() bool { return f.callCount(accountA) == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	final := r.Resolution()
	require.NotNil(t, final)
	assert.Equal(t, accountB, final.Account)
	assert.False(t, final.Result.IsWhitelisted)
}

func TestResolver_DisconnectClearsResult(t *testing.T) {
	f := newGatedFetcher()
	r := newTestResolver(t, f)
	ctx := context.Background()

	r.SetAccount(ctx, &accountA)
	f.release(accountA, proofFor(accountA, 5), nil)
	_, err := awaitResolution(t, r)
	require.NoError(t, err)
	require.NotNil(t, r.Result())

	r.SetAccount(ctx, nil)
	assert.Nil(t, r.Result())
}

func TestResolver_SameAccountIsNoop(t *testing.T) {
	f := newGatedFetcher()
	r := newTestResolver(t, f)
	ctx := context.Background()

	r.SetAccount(ctx, &accountA)
	f.release(accountA, proofFor(accountA, 5), nil)
	_, err := awaitResolution(t, r)
	require.NoError(t, err)

	same := accountA
	r.SetAccount(ctx, &same)
	assert.NotNil(t, r.Result())
	assert.Equal(t, 1, f.callCount(accountA))

	r.Refresh(ctx)
	assert.Nil(t, r.Result())
	f.release(accountA, proofFor(accountA, 5), nil)
	_, err = awaitResolution(t, r)
	require.NoError(t, err)
	assert.Equal(t, 2, f.callCount(accountA))
}

func TestResolver_MismatchedProofAccount(t *testing.T) {
	f := newGatedFetcher()
	r := newTestResolver(t, f)

	r.SetAccount(context.Background(), &accountA)
	f.release(accountA, proofFor(accountB, 1e18), nil)

	res, err := awaitResolution(t, r)
	require.NoError(t, err)
	assert.False(t, res.Result.IsWhitelisted)
	assert.Nil(t, res.Proof)
}
