package caller

import (
	"context"
	"math/big"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/middleware-bindings/GovernanceDao"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

func toProposalInput(p *contractCaller.CreateProposalParams) GovernanceDao.GovernanceDaoProposalInput {
	return GovernanceDao.GovernanceDaoProposalInput{
		Title:        p.Title,
		Introduction: p.Introduction,
		Content:      p.Content,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
		VotingType:   p.VotingType,
	}
}

func toVerifyInfo(v contractCaller.VerifyInfo) GovernanceDao.GovernanceDaoVerifyInfo {
	return GovernanceDao.GovernanceDaoVerifyInfo{
		ChainId:      v.ChainId,
		TokenAddress: v.TokenAddress,
		Balance:      v.Balance,
		SignType:     v.SignType,
	}
}

func (cc *ContractCaller) governanceDao(dao common.Address) (*GovernanceDao.GovernanceDao, error) {
	contract, err := GovernanceDao.NewGovernanceDao(dao, cc.backend)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create governance dao instance for %s", dao.Hex())
	}
	return contract, nil
}

func (cc *ContractCaller) GetProposalLength(ctx context.Context, dao common.Address) (*big.Int, error) {
	contract, err := cc.governanceDao(dao)
	if err != nil {
		return nil, err
	}
	length, err := contract.ProposalLength(callOpts(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get proposal length for %s", dao.Hex())
	}
	return length, nil
}

func (cc *ContractCaller) EstimateCreateProposal(ctx context.Context, dao common.Address, params *contractCaller.CreateProposalParams) (*contractCaller.GasInfo, error) {
	return cc.estimate(ctx, GovernanceDao.GovernanceDaoMetaData, dao, "createProposal",
		toProposalInput(params), params.Options, toVerifyInfo(params.Verifier), params.Signature)
}

func (cc *ContractCaller) CreateProposal(ctx context.Context, dao common.Address, params *contractCaller.CreateProposalParams, gas *contractCaller.GasInfo) (*ethereumTypes.Transaction, error) {
	contract, err := cc.governanceDao(dao)
	if err != nil {
		return nil, err
	}
	txOpts, err := cc.buildTransactionOpts(ctx, gas)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build transaction options")
	}

	tx, err := contract.CreateProposal(txOpts, toProposalInput(params), params.Options, toVerifyInfo(params.Verifier), params.Signature)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create createProposal transaction for %s", dao.Hex())
	}

	cc.logger.Sugar().Infow("Submitting proposal",
		"dao", dao.Hex(),
		"title", params.Title,
		"options", len(params.Options),
	)
	return cc.signAndSendTransaction(ctx, tx, "CreateProposal")
}

func (cc *ContractCaller) EstimateCancelProposal(ctx context.Context, dao common.Address, proposalId *big.Int) (*contractCaller.GasInfo, error) {
	return cc.estimate(ctx, GovernanceDao.GovernanceDaoMetaData, dao, "cancelProposal", proposalId)
}

func (cc *ContractCaller) CancelProposal(ctx context.Context, dao common.Address, proposalId *big.Int, gas *contractCaller.GasInfo) (*ethereumTypes.Transaction, error) {
	contract, err := cc.governanceDao(dao)
	if err != nil {
		return nil, err
	}
	txOpts, err := cc.buildTransactionOpts(ctx, gas)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build transaction options")
	}

	tx, err := contract.CancelProposal(txOpts, proposalId)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create cancelProposal transaction for proposal %s", proposalId.String())
	}

	cc.logger.Sugar().Infow("Cancelling proposal", "dao", dao.Hex(), "proposalId", proposalId.String())
	return cc.signAndSendTransaction(ctx, tx, "CancelProposal")
}

func (cc *ContractCaller) EstimateVote(ctx context.Context, dao common.Address, params *contractCaller.VoteParams) (*contractCaller.GasInfo, error) {
	return cc.estimate(ctx, GovernanceDao.GovernanceDaoMetaData, dao, "vote",
		params.ProposalId, params.OptionIndexes, params.Amounts, toVerifyInfo(params.Verifier), params.Signature)
}

func (cc *ContractCaller) Vote(ctx context.Context, dao common.Address, params *contractCaller.VoteParams, gas *contractCaller.GasInfo) (*ethereumTypes.Transaction, error) {
	contract, err := cc.governanceDao(dao)
	if err != nil {
		return nil, err
	}
	txOpts, err := cc.buildTransactionOpts(ctx, gas)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build transaction options")
	}

	tx, err := contract.Vote(txOpts, params.ProposalId, params.OptionIndexes, params.Amounts, toVerifyInfo(params.Verifier), params.Signature)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create vote transaction for proposal %s", params.ProposalId.String())
	}

	cc.logger.Sugar().Infow("Voting on proposal",
		"dao", dao.Hex(),
		"proposalId", params.ProposalId.String(),
		"options", len(params.OptionIndexes),
	)
	return cc.signAndSendTransaction(ctx, tx, "Vote")
}
