package transactionSigner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/web3signer"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Web3TransactionSigner implements ITransactionSigner using a remote Web3Signer
type Web3TransactionSigner struct {
	backend          EthBackend
	logger           *zap.Logger
	chainID          *big.Int
	web3SignerClient web3signer.IWeb3Signer
	fromAddress      common.Address
}

func NewWeb3TransactionSigner(ctx context.Context, web3SignerClient web3signer.IWeb3Signer, fromAddress common.Address, backend EthBackend, logger *zap.Logger) (*Web3TransactionSigner, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &Web3TransactionSigner{
		backend:          backend,
		logger:           logger,
		chainID:          chainID,
		web3SignerClient: web3SignerClient,
		fromAddress:      fromAddress,
	}, nil
}

func (w3s *Web3TransactionSigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	return noSendTransactOpts(ctx, w3s.fromAddress), nil
}

// SignAndSendTransaction has Web3Signer sign tx as a legacy transaction with the
// gas price and limit already set on it.
func (w3s *Web3TransactionSigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Transaction, error) {
	if tx.To() == nil {
		return nil, fmt.Errorf("contract creation is not supported")
	}

	// tx.Nonce() may legitimately be 0, always ask the node
	nonce, err := w3s.backend.PendingNonceAt(ctx, w3s.fromAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice := tx.GasPrice()
	gasLimit := tx.Gas()
	if gasPrice == nil || gasPrice.Sign() == 0 || gasLimit == 0 {
		gasPrice, gasLimit, err = w3s.EstimateGasPriceAndLimit(ctx, tx)
		if err != nil {
			return nil, err
		}
	}

	value := tx.Value()
	if value == nil {
		value = new(big.Int)
	}

	w3s.logger.Sugar().Infow("SignAndSendTransaction: sending transaction",
		"to", tx.To().Hex(),
		"gasPrice", gasPrice.String(),
		"gasLimit", gasLimit,
		"nonce", nonce,
	)

	signedBytes, err := w3s.web3SignerClient.EthSignTransaction(ctx, &web3signer.TransactionArgs{
		From:     w3s.fromAddress,
		To:       tx.To(),
		Gas:      hexutil.Uint64(gasLimit),
		GasPrice: (*hexutil.Big)(gasPrice),
		Value:    (*hexutil.Big)(value),
		Nonce:    hexutil.Uint64(nonce),
		Data:     tx.Data(),
		ChainID:  (*hexutil.Big)(w3s.chainID),
		Type:     hexutil.Uint64(types.LegacyTxType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction with Web3Signer: %w", err)
	}

	var signedTx types.Transaction
	if err := signedTx.UnmarshalBinary(signedBytes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signed transaction: %w", err)
	}

	if err := w3s.backend.SendTransaction(ctx, &signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	w3s.logger.Sugar().Infow("SignAndSendTransaction: transaction sent",
		"txHash", signedTx.Hash().Hex(),
	)
	return &signedTx, nil
}

func (w3s *Web3TransactionSigner) GetFromAddress() common.Address {
	return w3s.fromAddress
}

func (w3s *Web3TransactionSigner) EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error) {
	return estimateGasPriceAndLimit(ctx, w3s.backend, w3s.fromAddress, tx)
}
