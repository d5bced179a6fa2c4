package testutil

import (
	"context"
	"errors"
	"math/big"
	"sync"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// FakeEthBackend is an in-memory stand-in for *ethclient.Client. View calls
// are answered from CallResults keyed by the 0x-prefixed 4-byte selector.
type FakeEthBackend struct {
	mu sync.Mutex

	ChainId     *big.Int
	GasPrice    *big.Int
	GasEstimate uint64
	Nonce       uint64

	CallResults map[string][]byte
	CallErr     error
	EstimateErr error
	SendErr     error
	Receipts    map[common.Hash]*types.Receipt

	Calls         []goethereum.CallMsg
	EstimateCalls []goethereum.CallMsg
	Sent          []*types.Transaction
}

var _ bind.ContractBackend = (*FakeEthBackend)(nil)

func NewFakeEthBackend(chainId int64) *FakeEthBackend {
	return &FakeEthBackend{
		ChainId:     big.NewInt(chainId),
		GasPrice:    big.NewInt(5_000_000_000),
		GasEstimate: 100_000,
		CallResults: make(map[string][]byte),
		Receipts:    make(map[common.Hash]*types.Receipt),
	}
}

func (f *FakeEthBackend) SetCallResult(selector []byte, output []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CallResults[hexutil.Encode(selector)] = output
}

func (f *FakeEthBackend) SetReceipt(hash common.Hash, status uint64, blockNumber uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Receipts[hash] = &types.Receipt{
		TxHash:      hash,
		Status:      status,
		BlockNumber: new(big.Int).SetUint64(blockNumber),
	}
}

func (f *FakeEthBackend) SentTransactions() []*types.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*types.Transaction, len(f.Sent))
	copy(out, f.Sent)
	return out
}

func (f *FakeEthBackend) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

func (f *FakeEthBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.ChainId), nil
}

func (f *FakeEthBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (f *FakeEthBackend) CallContract(ctx context.Context, call goethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
	if f.CallErr != nil {
		return nil, f.CallErr
	}
	if len(call.Data) < 4 {
		return nil, errors.New("missing selector")
	}
	out, ok := f.CallResults[hexutil.Encode(call.Data[:4])]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return out, nil
}

func (f *FakeEthBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (f *FakeEthBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (f *FakeEthBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Nonce, nil
}

func (f *FakeEthBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.GasPrice), nil
}

func (f *FakeEthBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000), nil
}

func (f *FakeEthBackend) EstimateGas(ctx context.Context, call goethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EstimateCalls = append(f.EstimateCalls, call)
	if f.EstimateErr != nil {
		return 0, f.EstimateErr
	}
	return f.GasEstimate, nil
}

func (f *FakeEthBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Sent = append(f.Sent, tx)
	f.Nonce++
	return nil
}

func (f *FakeEthBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Receipts[txHash]
	if !ok {
		return nil, goethereum.NotFound
	}
	return r, nil
}

func (f *FakeEthBackend) FilterLogs(ctx context.Context, q goethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (f *FakeEthBackend) SubscribeFilterLogs(ctx context.Context, q goethereum.FilterQuery, ch chan<- types.Log) (goethereum.Subscription, error) {
	return nil, errors.New("subscriptions are not supported")
}
