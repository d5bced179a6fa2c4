package contractCaller

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
)

// GasInfo is the price and limit a transaction is submitted with.
type GasInfo struct {
	GasPrice *big.Int
	GasLimit uint64
}

// ClaimParams are the arguments of MerkleDistributor.claim.
type ClaimParams struct {
	Index   *big.Int
	Account common.Address
	Amount  *big.Int
	Proof   [][32]byte
}

// VerifyInfo is the token balance attestation governance calls carry.
type VerifyInfo struct {
	ChainId      *big.Int
	TokenAddress common.Address
	Balance      *big.Int
	SignType     uint8
}

type CreateProposalParams struct {
	Title        string
	Introduction string
	Content      string
	StartTime    *big.Int
	EndTime      *big.Int
	VotingType   uint8
	Options      []string
	Verifier     VerifyInfo
	Signature    []byte
}

type VoteParams struct {
	ProposalId    *big.Int
	OptionIndexes []*big.Int
	Amounts       []*big.Int
	Verifier      VerifyInfo
	Signature     []byte
}

type IContractCaller interface {
	// GetFromAddress is the account transactions are sent from. Zero when no
	// signer is configured.
	GetFromAddress() common.Address

	IsClaimed(ctx context.Context, account common.Address) (bool, error)
	GetMerkleRoot(ctx context.Context) ([32]byte, error)
	GetAirdropToken(ctx context.Context) (common.Address, error)
	GetTokenTotalSupply(ctx context.Context, token common.Address) (*big.Int, error)

	EstimateClaim(ctx context.Context, params *ClaimParams) (*GasInfo, error)
	Claim(ctx context.Context, params *ClaimParams, gas *GasInfo) (*ethereumTypes.Transaction, error)

	GetProposalLength(ctx context.Context, dao common.Address) (*big.Int, error)

	EstimateCreateProposal(ctx context.Context, dao common.Address, params *CreateProposalParams) (*GasInfo, error)
	CreateProposal(ctx context.Context, dao common.Address, params *CreateProposalParams, gas *GasInfo) (*ethereumTypes.Transaction, error)

	EstimateCancelProposal(ctx context.Context, dao common.Address, proposalId *big.Int) (*GasInfo, error)
	CancelProposal(ctx context.Context, dao common.Address, proposalId *big.Int, gas *GasInfo) (*ethereumTypes.Transaction, error)

	EstimateVote(ctx context.Context, dao common.Address, params *VoteParams) (*GasInfo, error)
	Vote(ctx context.Context, dao common.Address, params *VoteParams, gas *GasInfo) (*ethereumTypes.Transaction, error)
}
