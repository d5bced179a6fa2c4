package caller

import (
	"context"
	"errors"
	"fmt"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/middleware-bindings/MerkleDistributor"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/transactionSigner"
	ethereum "github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrNoSigner is returned by write operations on a read-only caller.
var ErrNoSigner = errors.New("no transaction signer configured")

type ContractCaller struct {
	backend            bind.ContractBackend
	signer             transactionSigner.ITransactionSigner
	logger             *zap.Logger
	distributorAddress common.Address

	distributor *MerkleDistributor.MerkleDistributor
}

var _ contractCaller.IContractCaller = (*ContractCaller)(nil)

func NewContractCallerFromEthereumClient(
	ethClient *ethereum.EthereumClient,
	signer transactionSigner.ITransactionSigner,
	distributorAddress common.Address,
	logger *zap.Logger,
) (*ContractCaller, error) {
	client, err := ethClient.GetEthereumContractCaller()
	if err != nil {
		return nil, err
	}

	return NewContractCaller(client, signer, distributorAddress, logger)
}

// NewContractCaller binds the distributor at distributorAddress. signer may be
// nil for read-only use.
func NewContractCaller(
	backend bind.ContractBackend,
	signer transactionSigner.ITransactionSigner,
	distributorAddress common.Address,
	logger *zap.Logger,
) (*ContractCaller, error) {
	distributor, err := MerkleDistributor.NewMerkleDistributor(distributorAddress, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create merkle distributor contract instance: %w", err)
	}

	logger.Sugar().Infow("Using merkle distributor", "address", distributorAddress.Hex())

	return &ContractCaller{
		backend:            backend,
		signer:             signer,
		logger:             logger,
		distributorAddress: distributorAddress,
		distributor:        distributor,
	}, nil
}

func (cc *ContractCaller) GetFromAddress() common.Address {
	if cc.signer == nil {
		return common.Address{}
	}
	return cc.signer.GetFromAddress()
}

func callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}
