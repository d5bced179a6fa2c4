package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/airdrop"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/daoServer"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/daolist"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/eligibility"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence/memory"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/submitter"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/testutil"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/tracker"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	eligible   = common.HexToAddress("0x0000000000000000000000000000000000000aaa")
	ineligible = common.HexToAddress("0x0000000000000000000000000000000000000bbb")
)

type proofFetcher map[common.Address]*types.MerkleProof

func (p proofFetcher) GetProof(ctx context.Context, account common.Address) (*types.MerkleProof, error) {
	return p[account], nil
}

type daoBackend struct {
	daolist.Backend
	page *daoServer.DaoPage
}

func (d *daoBackend) GetHomeDaoList(ctx context.Context, q daoServer.HomeDaoListQuery, offset, count int) (*daoServer.DaoPage, error) {
	return d.page, nil
}

// flakyFetcher fails the first lookup of every account.
type flakyFetcher struct {
	proofFetcher
	mu     sync.Mutex
	failed map[common.Address]bool
}

func (f *flakyFetcher) GetProof(ctx context.Context, account common.Address) (*types.MerkleProof, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.failed[account] {
		f.failed[account] = true
		return nil, errors.New("transient 502")
	}
	return f.proofFetcher.GetProof(ctx, account)
}

func testProofs() proofFetcher {
	amount, _ := new(big.Int).SetString("1230000000000000000", 10)
	return proofFetcher{
		eligible: {Index: 3, Account: eligible, Amount: amount, Proof: [][32]byte{{0x11}}},
	}
}

func newTestServer(t *testing.T) (*Server, *contractCaller.MockContractCallerStub) {
	return newTestServerWithFetcher(t, testProofs())
}

func newTestServerWithFetcher(t *testing.T, fetcher eligibility.ProofFetcher) (*Server, *contractCaller.MockContractCallerStub) {
	logger := zaptest.NewLogger(t)
	resolver := eligibility.NewResolver(fetcher, logger)

	store := memory.NewMemoryPersistence()
	tr := tracker.NewTracker(store, testutil.NewFakeEthBackend(1), logger)
	caller := contractCaller.NewMockContractCallerStub(eligible)
	ctrl := airdrop.NewController(resolver, caller, submitter.NewSubmitter(tr, &testutil.RecordingReporter{}, logger), tr, store, logger)

	home := daolist.NewHomeList(&daoBackend{page: &daoServer.DaoPage{Total: 1, List: []*daoServer.DaoSummary{{DaoName: "STP DAO"}}}}, logger)

	return NewServer(resolver, ctrl, home, tr, config.STPTToken, 0, logger), caller
}

func do(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, req)
	return w
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/eligibility"},
		{http.MethodGet, "/claim"},
		{http.MethodPost, "/claim/status"},
		{http.MethodPost, "/daos"},
		{http.MethodDelete, "/transactions"},
	} {
		w := do(t, s, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, tc.path)
	}
}

func TestServer_Eligibility(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("Invalid account", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/eligibility?account=0x123", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = do(t, s, http.MethodGet, "/eligibility", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Whitelisted", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/eligibility?account="+eligible.Hex(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp EligibilityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Known)
		assert.True(t, resp.IsWhitelisted)
		assert.Equal(t, "1230000000000000000", resp.Amount)
		assert.Equal(t, "1.23", resp.Display)
		assert.Equal(t, "STPT", resp.Symbol)
		require.NotNil(t, resp.Index)
		assert.Equal(t, uint64(3), *resp.Index)
		assert.Len(t, resp.Proof, 1)
	})

	t.Run("No record", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/eligibility?account="+ineligible.Hex(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp EligibilityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Known)
		assert.False(t, resp.IsWhitelisted)
		assert.Equal(t, "0", resp.Amount)
		assert.Nil(t, resp.Index)
	})
}

func TestServer_EligibilityRetriesAfterFailure(t *testing.T) {
	s, caller := newTestServerWithFetcher(t, &flakyFetcher{proofFetcher: testProofs(), failed: map[common.Address]bool{}})

	w := do(t, s, http.MethodGet, "/eligibility?account="+eligible.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp EligibilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Known)

	w = do(t, s, http.MethodGet, "/eligibility?account="+eligible.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = EligibilityResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Known)
	assert.True(t, resp.IsWhitelisted)

	w = do(t, s, http.MethodPost, "/claim", []byte(`{"account":"`+eligible.Hex()+`"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, caller.CallsTo("claim"), 1)
}

func TestServer_Claim(t *testing.T) {
	s, caller := newTestServer(t)

	t.Run("Bad body", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/claim", []byte("{"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, s, http.MethodPost, "/claim", []byte(`{"account":"nope"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, caller.CallCount())
	})

	t.Run("Not eligible", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/claim", []byte(`{"account":"`+ineligible.Hex()+`"}`))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 0, caller.CallCount())
	})

	t.Run("Submitted then in progress", func(t *testing.T) {
		body := []byte(`{"account":"` + eligible.Hex() + `"}`)

		w := do(t, s, http.MethodPost, "/claim", body)
		require.Equal(t, http.StatusOK, w.Code)
		var resp ClaimResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, types.ClaimStatus_Submitted, resp.Status)
		assert.NotEmpty(t, resp.TxHash)

		w = do(t, s, http.MethodPost, "/claim", body)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Len(t, caller.CallsTo("claim"), 1)

		w = do(t, s, http.MethodGet, "/claim/status?account="+eligible.Hex(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, types.ClaimStatus_Submitted, resp.Status)

		w = do(t, s, http.MethodGet, "/transactions", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var records []*types.TransactionRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "Claim airdrop", records[0].Summary)
	})

	t.Run("Already claimed", func(t *testing.T) {
		caller.SetClaimed(ineligible, true)
		w := do(t, s, http.MethodGet, "/claim/status?account="+ineligible.Hex(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp ClaimResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, types.ClaimStatus_Confirmed, resp.Status)
	})
}

func TestServer_Daos(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/daos?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/daos?page=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/daos?keyword=stp&page=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view daolist.HomeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "stp", view.Keyword)
	assert.Equal(t, 8, view.Page.PageSize)
	require.Len(t, view.Result, 1)
	assert.Equal(t, "STP DAO", view.Result[0].DaoName)
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t)

	body := []byte(`{"account":"` + eligible.Hex() + `"}`)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/claim", body).Code)

	w := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `airdrop_claimer_submitter_submissions_total{method="claim",result="submitted"}`)
}
