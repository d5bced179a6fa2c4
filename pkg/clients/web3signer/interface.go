package web3signer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// IWeb3Signer defines the subset of the Web3Signer eth1 JSON-RPC API the
// claimer signs through.
type IWeb3Signer interface {
	// EthAccounts returns the accounts the signer holds keys for.
	// This corresponds to the eth_accounts JSON-RPC method.
	EthAccounts(ctx context.Context) ([]common.Address, error)

	// EthSignTransaction signs a transaction and returns its RLP encoding.
	// This corresponds to the eth_signTransaction JSON-RPC method.
	EthSignTransaction(ctx context.Context, tx *TransactionArgs) (hexutil.Bytes, error)

	// EthSign signs data with the eth_sign message prefix.
	EthSign(ctx context.Context, account common.Address, data []byte) (hexutil.Bytes, error)

	Close()
}

// Compile-time check to ensure Client implements IWeb3Signer
var _ IWeb3Signer = (*Client)(nil)
