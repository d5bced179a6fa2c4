package caller

import (
	"context"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/middleware-bindings/MerkleDistributor"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// IsClaimed reads the distributor's authoritative claimed flag for account.
func (cc *ContractCaller) IsClaimed(ctx context.Context, account common.Address) (bool, error) {
	claimed, err := cc.distributor.IsClaimed(callOpts(ctx), account)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check claim status for %s", account.Hex())
	}
	return claimed, nil
}

func (cc *ContractCaller) GetMerkleRoot(ctx context.Context) ([32]byte, error) {
	root, err := cc.distributor.MerkleRoot(callOpts(ctx))
	if err != nil {
		return [32]byte{}, errors.Wrapf(err, "failed to get merkle root")
	}
	return root, nil
}

func (cc *ContractCaller) GetAirdropToken(ctx context.Context) (common.Address, error) {
	token, err := cc.distributor.Token(callOpts(ctx))
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "failed to get airdrop token")
	}
	return token, nil
}

func (cc *ContractCaller) EstimateClaim(ctx context.Context, params *contractCaller.ClaimParams) (*contractCaller.GasInfo, error) {
	return cc.estimate(ctx, MerkleDistributor.MerkleDistributorMetaData, cc.distributorAddress, "claim",
		params.Index, params.Account, params.Amount, params.Proof)
}

// Claim submits claim(index, account, amount, proof) and returns the sent
// transaction without waiting for it to be mined.
func (cc *ContractCaller) Claim(ctx context.Context, params *contractCaller.ClaimParams, gas *contractCaller.GasInfo) (*ethereumTypes.Transaction, error) {
	txOpts, err := cc.buildTransactionOpts(ctx, gas)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build transaction options")
	}

	tx, err := cc.distributor.Claim(txOpts, params.Index, params.Account, params.Amount, params.Proof)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create claim transaction for %s at index %s", params.Account.Hex(), params.Index.String())
	}

	cc.logger.Sugar().Infow("Submitting airdrop claim",
		"account", params.Account.Hex(),
		"index", params.Index.String(),
		"amount", params.Amount.String(),
		"proofLength", len(params.Proof),
	)

	return cc.signAndSendTransaction(ctx, tx, "Claim")
}
