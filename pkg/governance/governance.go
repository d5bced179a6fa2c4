// Package governance submits DAO proposal transactions: create, cancel and vote.
// All three go through the shared submitter, so gas pricing, tracking and
// failure reporting match the airdrop claim.
package governance

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/submitter"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// SignType tags what a VerifyInfo signature was issued for.
type SignType uint8

const (
	SignType_CreateProposal SignType = iota
	SignType_Vote
)

const UploadFailedMessage = "Upload failed, please try again."

var (
	ErrNoAccount    = errors.New("none account")
	ErrUploadFailed = errors.New(UploadFailedMessage)
)

// ContentUploader is satisfied by *daoServer.Client.
type ContentUploader interface {
	SaveProposalContent(ctx context.Context, content string) (string, error)
}

// Proposal is the user input for a new proposal. Content is the long-form body;
// it is stored off-chain and only its tag goes on-chain.
type Proposal struct {
	Title        string
	Introduction string
	Content      string
	StartTime    int64
	EndTime      int64
	VotingType   uint8
	Options      []string
}

type Service struct {
	caller    contractCaller.IContractCaller
	submitter *submitter.Submitter
	uploader  ContentUploader
	logger    *zap.Logger
}

func NewService(
	caller contractCaller.IContractCaller,
	sub *submitter.Submitter,
	uploader ContentUploader,
	logger *zap.Logger,
) *Service {
	return &Service{
		caller:    caller,
		submitter: sub,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *Service) account() (common.Address, error) {
	from := s.caller.GetFromAddress()
	if from == (common.Address{}) {
		return common.Address{}, ErrNoAccount
	}
	return from, nil
}

// CreateProposal uploads the trimmed content, if any, and submits createProposal
// with the returned content tag.
func (s *Service) CreateProposal(
	ctx context.Context,
	dao common.Address,
	proposal *Proposal,
	verifier contractCaller.VerifyInfo,
	signature []byte,
) (*ethTypes.Transaction, error) {
	from, err := s.account()
	if err != nil {
		return nil, err
	}

	contentTag := ""
	if content := strings.TrimSpace(proposal.Content); content != "" {
		contentTag, err = s.uploader.SaveProposalContent(ctx, content)
		if err != nil {
			s.logger.Sugar().Warnw("Failed to upload proposal content", "dao", dao.Hex(), "error", err)
			return nil, ErrUploadFailed
		}
	}

	params := &contractCaller.CreateProposalParams{
		Title:        proposal.Title,
		Introduction: proposal.Introduction,
		Content:      contentTag,
		StartTime:    big.NewInt(proposal.StartTime),
		EndTime:      big.NewInt(proposal.EndTime),
		VotingType:   proposal.VotingType,
		Options:      proposal.Options,
		Verifier:     verifier,
		Signature:    signature,
	}

	return s.submitter.Submit(ctx, &submitter.Request{
		Title:  "useCreateProposalCallback",
		Method: "createProposal",
		Args: []interface{}{
			[]interface{}{params.Title, params.Introduction, params.Content, proposal.StartTime, proposal.EndTime, params.VotingType},
			params.Options,
			verifierArgs(verifier),
			hexutil.Encode(signature),
		},
		From:    from,
		Summary: "Create a proposal",
		Estimate: func(ctx context.Context) (*contractCaller.GasInfo, error) {
			return s.caller.EstimateCreateProposal(ctx, dao, params)
		},
		Send: func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
			return s.caller.CreateProposal(ctx, dao, params, gas)
		},
	})
}

func (s *Service) CancelProposal(ctx context.Context, dao common.Address, proposalId *big.Int) (*ethTypes.Transaction, error) {
	from, err := s.account()
	if err != nil {
		return nil, err
	}

	return s.submitter.Submit(ctx, &submitter.Request{
		Title:    "useCancelProposalCallback",
		Method:   "cancelProposal",
		Args:     []interface{}{proposalId.String()},
		From:     from,
		Summary:  "Cancel proposal",
		ClaimKey: CancelKey(dao),
		Estimate: func(ctx context.Context) (*contractCaller.GasInfo, error) {
			return s.caller.EstimateCancelProposal(ctx, dao, proposalId)
		},
		Send: func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
			return s.caller.CancelProposal(ctx, dao, proposalId, gas)
		},
	})
}

// Vote spreads amounts over the options at optionIndexes; both slices must have
// the same length.
func (s *Service) Vote(
	ctx context.Context,
	dao common.Address,
	proposalId *big.Int,
	optionIndexes []*big.Int,
	amounts []*big.Int,
	verifier contractCaller.VerifyInfo,
	signature []byte,
) (*ethTypes.Transaction, error) {
	from, err := s.account()
	if err != nil {
		return nil, err
	}
	if len(optionIndexes) == 0 || len(optionIndexes) != len(amounts) {
		return nil, fmt.Errorf("vote needs one amount per option, got %d options and %d amounts", len(optionIndexes), len(amounts))
	}

	params := &contractCaller.VoteParams{
		ProposalId:    proposalId,
		OptionIndexes: optionIndexes,
		Amounts:       amounts,
		Verifier:      verifier,
		Signature:     signature,
	}

	return s.submitter.Submit(ctx, &submitter.Request{
		Title:  "useProposalVoteCallback",
		Method: "vote",
		Args: []interface{}{
			proposalId.String(),
			bigStrings(optionIndexes),
			bigStrings(amounts),
			verifierArgs(verifier),
			hexutil.Encode(signature),
		},
		From:     from,
		Summary:  "Proposal vote",
		ClaimKey: VoteKey(dao, proposalId),
		Estimate: func(ctx context.Context) (*contractCaller.GasInfo, error) {
			return s.caller.EstimateVote(ctx, dao, params)
		},
		Send: func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
			return s.caller.Vote(ctx, dao, params, gas)
		},
	})
}

// ProposalCount reads how many proposals dao has created.
func (s *Service) ProposalCount(ctx context.Context, dao common.Address) (*big.Int, error) {
	return s.caller.GetProposalLength(ctx, dao)
}

func CancelKey(dao common.Address) string {
	return fmt.Sprintf("%s_cancelProposal", dao.Hex())
}

func VoteKey(dao common.Address, proposalId *big.Int) string {
	return fmt.Sprintf("%s_proposalVote_%s", dao.Hex(), proposalId.String())
}

func verifierArgs(v contractCaller.VerifyInfo) []interface{} {
	chainId, balance := "0", "0"
	if v.ChainId != nil {
		chainId = v.ChainId.String()
	}
	if v.Balance != nil {
		balance = v.Balance.String()
	}
	return []interface{}{chainId, v.TokenAddress.Hex(), balance, v.SignType}
}

func bigStrings(values []*big.Int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}
