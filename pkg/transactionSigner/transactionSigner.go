package transactionSigner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/web3signer"
	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// gasLimitBufferPercent is added on top of every gas estimate.
const gasLimitBufferPercent = 20

// ITransactionSigner provides methods for signing Ethereum transactions
type ITransactionSigner interface {
	// GetTransactOpts returns transaction options for creating unsigned transactions
	GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error)

	// SignAndSendTransaction signs a transaction and hands it to the network.
	// It returns once the node accepted it; mining is not awaited.
	SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Transaction, error)

	// GetFromAddress returns the address that will be used for signing
	GetFromAddress() common.Address

	// EstimateGasPriceAndLimit estimates gas price and limit for a transaction
	EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error)
}

// EthBackend is the part of *ethclient.Client the signers need.
type EthBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg goethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type SignerConfig struct {
	PrivateKey    string `json:"privateKey" yaml:"privateKey"`
	Web3SignerUrl string `json:"web3SignerUrl" yaml:"web3SignerUrl"`
	FromAddress   string `json:"fromAddress" yaml:"fromAddress"`
}

func NewTransactionSigner(ctx context.Context, cfg *SignerConfig, backend EthBackend, logger *zap.Logger) (ITransactionSigner, error) {
	switch {
	case cfg.PrivateKey != "" && cfg.Web3SignerUrl != "":
		return nil, fmt.Errorf("private key and web3signer url are mutually exclusive")
	case cfg.PrivateKey != "":
		return NewPrivateKeySigner(ctx, cfg.PrivateKey, backend, logger)
	case cfg.Web3SignerUrl != "":
		if !common.IsHexAddress(cfg.FromAddress) {
			return nil, fmt.Errorf("invalid from address %q", cfg.FromAddress)
		}
		client, err := web3signer.NewClientFromURL(cfg.Web3SignerUrl, logger)
		if err != nil {
			return nil, err
		}
		return NewWeb3TransactionSigner(ctx, client, common.HexToAddress(cfg.FromAddress), backend, logger)
	default:
		return nil, fmt.Errorf("private key cannot be empty")
	}
}

// noSendTransactOpts makes bindings return the built transaction unsigned so
// that signing happens in SignAndSendTransaction.
func noSendTransactOpts(ctx context.Context, from common.Address) *bind.TransactOpts {
	return &bind.TransactOpts{
		From:    from,
		Context: ctx,
		NoSend:  true,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return tx, nil
		},
	}
}

// estimateGasPriceAndLimit prices tx at the node's suggested gas price and
// estimates its gas limit with a buffer.
func estimateGasPriceAndLimit(ctx context.Context, backend EthBackend, from common.Address, tx *types.Transaction) (*big.Int, uint64, error) {
	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := backend.EstimateGas(ctx, goethereum.CallMsg{
		From:     from,
		To:       tx.To(),
		GasPrice: gasPrice,
		Value:    tx.Value(),
		Data:     tx.Data(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to estimate gas: %w", err)
	}

	return gasPrice, addGasBuffer(gasLimit), nil
}

func addGasBuffer(gasLimit uint64) uint64 {
	return gasLimit + gasLimit*gasLimitBufferPercent/100
}
