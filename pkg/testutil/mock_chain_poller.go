package testutil

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/blockHandler"
	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// MockChainPoller feeds synthetic heads to block handlers without an RPC node.
type MockChainPoller struct {
	blockHandlers []blockHandler.IBlockHandler
	logger        *zap.Logger
	currentBlock  uint64
	ctx           context.Context
	cancel        context.CancelFunc
	mu            sync.Mutex
}

func NewMockChainPoller(blockHandlers []blockHandler.IBlockHandler, logger *zap.Logger) *MockChainPoller {
	return &MockChainPoller{
		blockHandlers: blockHandlers,
		logger:        logger,
	}
}

func (m *MockChainPoller) Start(ctx context.Context) error {
	m.mu.Lock()
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.logger.Sugar().Info("MockChainPoller started")
	return nil
}

func (m *MockChainPoller) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.logger.Sugar().Info("MockChainPoller stopped")
	}
}

// EmitBlock emits the block after the current one.
func (m *MockChainPoller) EmitBlock() error {
	m.mu.Lock()
	next := m.currentBlock + 1
	m.mu.Unlock()
	return m.EmitBlockAtNumber(next)
}

func (m *MockChainPoller) EmitBlockAtNumber(blockNumber uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return nil
	}
	m.currentBlock = blockNumber

	block := &ethereum.EthereumBlock{
		Number:       ethereum.EthereumQuantity(blockNumber),
		Hash:         ethereum.EthereumHexString(blockHash(blockNumber)),
		Timestamp:    ethereum.EthereumQuantity(time.Now().Unix()),
		ParentHash:   ethereum.EthereumHexString(blockHash(blockNumber - 1)),
		Nonce:        ethereum.EthereumHexString("0x0000000000000000"),
		Transactions: []*ethereum.EthereumTransaction{},
	}

	m.logger.Sugar().Debugw("MockChainPoller emitting block", "block", blockNumber, "handlers", len(m.blockHandlers))
	for i, handler := range m.blockHandlers {
		if err := handler.HandleBlock(m.ctx, block); err != nil {
			m.logger.Sugar().Warnw("Failed to send block to handler", "block", blockNumber, "handler", i, "error", err)
		}
	}
	return nil
}

// EmitReorg reports that blockNumber and everything after it were replaced.
func (m *MockChainPoller) EmitReorg(blockNumber uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return
	}
	if blockNumber > 0 {
		m.currentBlock = blockNumber - 1
	}
	for _, handler := range m.blockHandlers {
		handler.HandleReorgBlock(m.ctx, blockNumber)
	}
}

func (m *MockChainPoller) GetCurrentBlock() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentBlock
}

func blockHash(blockNumber uint64) string {
	return common.BigToHash(new(big.Int).SetUint64(blockNumber)).Hex()
}
