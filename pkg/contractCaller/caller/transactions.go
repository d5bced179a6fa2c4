package caller

import (
	"context"
	"math/big"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// buildTransactionOpts returns no-send opts priced with gas.
func (cc *ContractCaller) buildTransactionOpts(ctx context.Context, gas *contractCaller.GasInfo) (*bind.TransactOpts, error) {
	if cc.signer == nil {
		return nil, ErrNoSigner
	}
	if gas == nil || gas.GasPrice == nil || gas.GasLimit == 0 {
		return nil, errors.New("gas price and limit are required")
	}
	opts, err := cc.signer.GetTransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.GasPrice = new(big.Int).Set(gas.GasPrice)
	opts.GasLimit = gas.GasLimit
	return opts, nil
}

func (cc *ContractCaller) signAndSendTransaction(ctx context.Context, tx *ethereumTypes.Transaction, operation string) (*ethereumTypes.Transaction, error) {
	cc.logger.Sugar().Infow("Signing and sending transaction",
		zap.String("operation", operation),
		zap.String("from", cc.signer.GetFromAddress().Hex()),
		zap.String("to", tx.To().Hex()),
	)

	return cc.signer.SignAndSendTransaction(ctx, tx)
}

// estimate packs method(args...) against to and asks the signer for a price
// and buffered gas limit.
func (cc *ContractCaller) estimate(ctx context.Context, metaData *bind.MetaData, to common.Address, method string, args ...interface{}) (*contractCaller.GasInfo, error) {
	if cc.signer == nil {
		return nil, ErrNoSigner
	}
	parsed, err := metaData.GetAbi()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse abi")
	}
	data, err := packCall(parsed, method, args...)
	if err != nil {
		return nil, err
	}

	tx := ethereumTypes.NewTx(&ethereumTypes.LegacyTx{
		To:    &to,
		Value: big.NewInt(0),
		Data:  data,
	})
	gasPrice, gasLimit, err := cc.signer.EstimateGasPriceAndLimit(ctx, tx)
	if err != nil {
		return nil, err
	}

	cc.logger.Sugar().Debugw("Estimated gas",
		"method", method,
		"to", to.Hex(),
		"gasPrice", gasPrice.String(),
		"gasLimit", gasLimit,
	)
	return &contractCaller.GasInfo{GasPrice: gasPrice, GasLimit: gasLimit}, nil
}

func packCall(parsed *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s call", method)
	}
	return data, nil
}
