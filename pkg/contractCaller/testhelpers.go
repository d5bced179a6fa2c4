package contractCaller

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
)

// RecordedCall is one call observed by MockContractCallerStub.
type RecordedCall struct {
	Method string
	Dao    common.Address
	Args   interface{}
	Gas    *GasInfo
}

// MockContractCallerStub is an in-memory IContractCaller for tests. Every call
// is recorded; transactions get deterministic hashes derived from the call count.
type MockContractCallerStub struct {
	mu sync.Mutex

	From         common.Address
	Claimed      map[common.Address]bool
	MerkleRoot   [32]byte
	Token        common.Address
	TotalSupply  *big.Int
	GasPrice     *big.Int
	GasLimit     uint64
	IsClaimedErr error
	EstimateErr  error
	SendErr      error

	Calls []RecordedCall
}

var _ IContractCaller = (*MockContractCallerStub)(nil)

func NewMockContractCallerStub(from common.Address) *MockContractCallerStub {
	return &MockContractCallerStub{
		From:     from,
		Claimed:  make(map[common.Address]bool),
		GasPrice: big.NewInt(5_000_000_000),
		GasLimit: 120_000,
	}
}

func (m *MockContractCallerStub) record(method string, dao common.Address, args interface{}, gas *GasInfo) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, RecordedCall{Method: method, Dao: dao, Args: args, Gas: gas})
	return len(m.Calls)
}

// CallsTo returns the recorded calls of one method.
func (m *MockContractCallerStub) CallsTo(method string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RecordedCall
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockContractCallerStub) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockContractCallerStub) SetClaimed(account common.Address, claimed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Claimed[account] = claimed
}

func (m *MockContractCallerStub) gas() (*GasInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EstimateErr != nil {
		return nil, m.EstimateErr
	}
	return &GasInfo{GasPrice: new(big.Int).Set(m.GasPrice), GasLimit: m.GasLimit}, nil
}

func (m *MockContractCallerStub) send(n int) (*ethTypes.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	return ethTypes.NewTx(&ethTypes.LegacyTx{Nonce: uint64(n), GasPrice: m.GasPrice, Gas: m.GasLimit}), nil
}

func (m *MockContractCallerStub) GetFromAddress() common.Address {
	return m.From
}

func (m *MockContractCallerStub) IsClaimed(ctx context.Context, account common.Address) (bool, error) {
	m.record("isClaimed", common.Address{}, account, nil)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsClaimedErr != nil {
		return false, m.IsClaimedErr
	}
	return m.Claimed[account], nil
}

func (m *MockContractCallerStub) GetMerkleRoot(ctx context.Context) ([32]byte, error) {
	m.record("merkleRoot", common.Address{}, nil, nil)
	return m.MerkleRoot, nil
}

func (m *MockContractCallerStub) GetAirdropToken(ctx context.Context) (common.Address, error) {
	m.record("token", common.Address{}, nil, nil)
	return m.Token, nil
}

func (m *MockContractCallerStub) GetTokenTotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	m.record("totalSupply", token, nil, nil)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TotalSupply == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(m.TotalSupply), nil
}

func (m *MockContractCallerStub) EstimateClaim(ctx context.Context, params *ClaimParams) (*GasInfo, error) {
	m.record("estimateClaim", common.Address{}, params, nil)
	return m.gas()
}

func (m *MockContractCallerStub) Claim(ctx context.Context, params *ClaimParams, gas *GasInfo) (*ethTypes.Transaction, error) {
	return m.send(m.record("claim", common.Address{}, params, gas))
}

func (m *MockContractCallerStub) GetProposalLength(ctx context.Context, dao common.Address) (*big.Int, error) {
	m.record("proposalLength", dao, nil, nil)
	return big.NewInt(0), nil
}

func (m *MockContractCallerStub) EstimateCreateProposal(ctx context.Context, dao common.Address, params *CreateProposalParams) (*GasInfo, error) {
	m.record("estimateCreateProposal", dao, params, nil)
	return m.gas()
}

func (m *MockContractCallerStub) CreateProposal(ctx context.Context, dao common.Address, params *CreateProposalParams, gas *GasInfo) (*ethTypes.Transaction, error) {
	return m.send(m.record("createProposal", dao, params, gas))
}

func (m *MockContractCallerStub) EstimateCancelProposal(ctx context.Context, dao common.Address, proposalId *big.Int) (*GasInfo, error) {
	m.record("estimateCancelProposal", dao, proposalId, nil)
	return m.gas()
}

func (m *MockContractCallerStub) CancelProposal(ctx context.Context, dao common.Address, proposalId *big.Int, gas *GasInfo) (*ethTypes.Transaction, error) {
	return m.send(m.record("cancelProposal", dao, proposalId, gas))
}

func (m *MockContractCallerStub) EstimateVote(ctx context.Context, dao common.Address, params *VoteParams) (*GasInfo, error) {
	m.record("estimateVote", dao, params, nil)
	return m.gas()
}

func (m *MockContractCallerStub) Vote(ctx context.Context, dao common.Address, params *VoteParams, gas *GasInfo) (*ethTypes.Transaction, error) {
	return m.send(m.record("vote", dao, params, gas))
}
