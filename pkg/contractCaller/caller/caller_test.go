package caller

import (
	"context"
	"math/big"
	"testing"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/middleware-bindings/GovernanceDao"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/middleware-bindings/MerkleDistributor"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/testutil"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/transactionSigner"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	distributorAddress = common.HexToAddress("0x00000000000000000000000000000000000d1570")
	daoAddress         = common.HexToAddress("0x0000000000000000000000000000000000000da0")
)

func distributorAbi(t *testing.T) *abi.ABI {
	parsed, err := MerkleDistributor.MerkleDistributorMetaData.GetAbi()
	require.NoError(t, err)
	return parsed
}

func governanceAbi(t *testing.T) *abi.ABI {
	parsed, err := GovernanceDao.GovernanceDaoMetaData.GetAbi()
	require.NoError(t, err)
	return parsed
}

func newTestCaller(t *testing.T, withSigner bool) (*ContractCaller, *testutil.FakeEthBackend) {
	backend := testutil.NewFakeEthBackend(56)
	logger := zaptest.NewLogger(t)

	var signer transactionSigner.ITransactionSigner
	if withSigner {
		s, err := transactionSigner.NewPrivateKeySigner(context.Background(), testPrivateKey, backend, logger)
		require.NoError(t, err)
		signer = s
	}

	cc, err := NewContractCaller(backend, signer, distributorAddress, logger)
	require.NoError(t, err)
	return cc, backend
}

func testClaimParams() *contractCaller.ClaimParams {
	return &contractCaller.ClaimParams{
		Index:   big.NewInt(3),
		Account: common.HexToAddress("0x0000000000000000000000000000000000000aaa"),
		Amount:  new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
		Proof:   [][32]byte{{0x01}, {0x02}},
	}
}

func Test_IsClaimed(t *testing.T) {
	cc, backend := newTestCaller(t, false)
	parsed := distributorAbi(t)
	account := common.HexToAddress("0x0000000000000000000000000000000000000aaa")

	out, err := parsed.Methods["isClaimed"].Outputs.Pack(true)
	require.NoError(t, err)
	backend.SetCallResult(parsed.Methods["isClaimed"].ID, out)

	claimed, err := cc.IsClaimed(context.Background(), account)
	require.NoError(t, err)
	assert.True(t, claimed)

	require.Equal(t, 1, backend.CallCount())
	call := backend.Calls[0]
	assert.Equal(t, &distributorAddress, call.To)
	args, err := parsed.Methods["isClaimed"].Inputs.Unpack(call.Data[4:])
	require.NoError(t, err)
	assert.Equal(t, account, args[0])
}

func Test_IsClaimed_Error(t *testing.T) {
	cc, _ := newTestCaller(t, false)

	// no result registered, the fake reverts
	_, err := cc.IsClaimed(context.Background(), common.Address{})
	assert.Error(t, err)
}

func Test_GetMerkleRoot(t *testing.T) {
	cc, backend := newTestCaller(t, false)
	parsed := distributorAbi(t)

	root := [32]byte{0xab, 0xcd}
	out, err := parsed.Methods["merkleRoot"].Outputs.Pack(root)
	require.NoError(t, err)
	backend.SetCallResult(parsed.Methods["merkleRoot"].ID, out)

	got, err := cc.GetMerkleRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func Test_GetTokenTotalSupply(t *testing.T) {
	cc, backend := newTestCaller(t, false)
	parsed, err := ERC20MetaData.GetAbi()
	require.NoError(t, err)

	token := common.HexToAddress("0x0000000000000000000000000000000000000ccc")
	supply, _ := new(big.Int).SetString("1942420283000000000000000000", 10)
	out, err := parsed.Methods["totalSupply"].Outputs.Pack(supply)
	require.NoError(t, err)
	backend.SetCallResult(parsed.Methods["totalSupply"].ID, out)

	got, err := cc.GetTokenTotalSupply(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, supply.String(), got.String())

	require.Equal(t, 1, backend.CallCount())
	assert.Equal(t, &token, backend.Calls[0].To)

	backend.CallErr = assert.AnError
	_, err = cc.GetTokenTotalSupply(context.Background(), token)
	assert.ErrorContains(t, err, token.Hex())
}

func Test_WritesWithoutSigner(t *testing.T) {
	cc, backend := newTestCaller(t, false)
	ctx := context.Background()

	_, err := cc.EstimateClaim(ctx, testClaimParams())
	assert.ErrorIs(t, err, ErrNoSigner)

	_, err = cc.Claim(ctx, testClaimParams(), &contractCaller.GasInfo{GasPrice: big.NewInt(1), GasLimit: 1})
	assert.ErrorIs(t, err, ErrNoSigner)

	assert.Empty(t, backend.SentTransactions())
	assert.Equal(t, common.Address{}, cc.GetFromAddress())
}

func Test_EstimateClaim(t *testing.T) {
	cc, backend := newTestCaller(t, true)
	parsed := distributorAbi(t)
	params := testClaimParams()

	gas, err := cc.EstimateClaim(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, backend.GasPrice, gas.GasPrice)
	assert.Equal(t, uint64(120_000), gas.GasLimit)

	require.Len(t, backend.EstimateCalls, 1)
	call := backend.EstimateCalls[0]
	assert.Equal(t, &distributorAddress, call.To)
	assert.Equal(t, cc.GetFromAddress(), call.From)

	args, err := parsed.Methods["claim"].Inputs.Unpack(call.Data[4:])
	require.NoError(t, err)
	assert.Equal(t, params.Index, args[0])
	assert.Equal(t, params.Account, args[1])
	assert.Equal(t, params.Amount, args[2])
	assert.Equal(t, params.Proof, args[3])
}

func Test_Claim(t *testing.T) {
	cc, backend := newTestCaller(t, true)
	parsed := distributorAbi(t)
	params := testClaimParams()
	backend.Nonce = 4

	gas := &contractCaller.GasInfo{GasPrice: big.NewInt(7_000_000_000), GasLimit: 90_000}
	tx, err := cc.Claim(context.Background(), params, gas)
	require.NoError(t, err)

	sent := backend.SentTransactions()
	require.Len(t, sent, 1)
	assert.Equal(t, tx.Hash(), sent[0].Hash())

	assert.Equal(t, &distributorAddress, tx.To())
	assert.Equal(t, gas.GasPrice, tx.GasPrice())
	assert.Equal(t, gas.GasLimit, tx.Gas())
	assert.Equal(t, uint64(4), tx.Nonce())

	assert.Equal(t, parsed.Methods["claim"].ID, tx.Data()[:4])
	args, err := parsed.Methods["claim"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, params.Index, args[0])
	assert.Equal(t, params.Account, args[1])
	assert.Equal(t, params.Amount, args[2])
	assert.Equal(t, params.Proof, args[3])
}

func Test_Claim_RequiresGas(t *testing.T) {
	cc, backend := newTestCaller(t, true)

	_, err := cc.Claim(context.Background(), testClaimParams(), nil)
	assert.Error(t, err)
	assert.Empty(t, backend.SentTransactions())
}

func Test_Governance(t *testing.T) {
	cc, backend := newTestCaller(t, true)
	parsed := governanceAbi(t)
	ctx := context.Background()
	gas := &contractCaller.GasInfo{GasPrice: big.NewInt(1_000_000_000), GasLimit: 200_000}

	verifier := contractCaller.VerifyInfo{
		ChainId:      big.NewInt(56),
		TokenAddress: common.HexToAddress("0x00000000000000000000000000000000000070c3"),
		Balance:      big.NewInt(500),
		SignType:     0,
	}

	t.Run("CancelProposal", func(t *testing.T) {
		tx, err := cc.CancelProposal(ctx, daoAddress, big.NewInt(9), gas)
		require.NoError(t, err)
		assert.Equal(t, &daoAddress, tx.To())
		assert.Equal(t, parsed.Methods["cancelProposal"].ID, tx.Data()[:4])

		args, err := parsed.Methods["cancelProposal"].Inputs.Unpack(tx.Data()[4:])
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(9), args[0])
	})

	t.Run("Vote", func(t *testing.T) {
		params := &contractCaller.VoteParams{
			ProposalId:    big.NewInt(2),
			OptionIndexes: []*big.Int{big.NewInt(0), big.NewInt(1)},
			Amounts:       []*big.Int{big.NewInt(100), big.NewInt(400)},
			Verifier:      verifier,
			Signature:     []byte{0x01, 0x02},
		}
		gasInfo, err := cc.EstimateVote(ctx, daoAddress, params)
		require.NoError(t, err)
		assert.Equal(t, uint64(120_000), gasInfo.GasLimit)

		tx, err := cc.Vote(ctx, daoAddress, params, gasInfo)
		require.NoError(t, err)
		assert.Equal(t, parsed.Methods["vote"].ID, tx.Data()[:4])

		args, err := parsed.Methods["vote"].Inputs.Unpack(tx.Data()[4:])
		require.NoError(t, err)
		assert.Equal(t, params.ProposalId, args[0])
		assert.Equal(t, params.OptionIndexes, args[1])
		assert.Equal(t, params.Amounts, args[2])
		assert.Equal(t, []byte{0x01, 0x02}, args[4])
	})

	t.Run("CreateProposal", func(t *testing.T) {
		params := &contractCaller.CreateProposalParams{
			Title:        "Treasury",
			Introduction: "Fund the grants round",
			Content:      "3f2c1f7e-3a2b-4c5d-8e9f-0a1b2c3d4e5f",
			StartTime:    big.NewInt(1700000000),
			EndTime:      big.NewInt(1700600000),
			VotingType:   1,
			Options:      []string{"Yes", "No"},
			Verifier:     verifier,
			Signature:    []byte{0x0a},
		}
		_, err := cc.EstimateCreateProposal(ctx, daoAddress, params)
		require.NoError(t, err)

		tx, err := cc.CreateProposal(ctx, daoAddress, params, gas)
		require.NoError(t, err)
		assert.Equal(t, parsed.Methods["createProposal"].ID, tx.Data()[:4])

		args, err := parsed.Methods["createProposal"].Inputs.Unpack(tx.Data()[4:])
		require.NoError(t, err)
		assert.Equal(t, []string{"Yes", "No"}, args[1])
	})

	assert.Len(t, backend.SentTransactions(), 3)
}

func Test_GetProposalLength(t *testing.T) {
	cc, backend := newTestCaller(t, false)
	parsed := governanceAbi(t)

	out, err := parsed.Methods["proposalLength"].Outputs.Pack(big.NewInt(12))
	require.NoError(t, err)
	backend.SetCallResult(parsed.Methods["proposalLength"].ID, out)

	length, err := cc.GetProposalLength(context.Background(), daoAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(12), length.Int64())
	assert.Equal(t, &daoAddress, backend.Calls[0].To)
}
