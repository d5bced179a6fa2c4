package blockHandler

import (
	"context"
	"sync"

	chainPoller "github.com/Layr-Labs/chain-indexer/pkg/chainPollers"
	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	"go.uber.org/zap"
)

type IBlockHandler interface {
	chainPoller.IBlockHandler
	ListenToChannel(ctx context.Context, handleFunc func(*ethereum.EthereumBlock))
	ListenToReorgs(ctx context.Context, handleFunc func(blockNumber uint64))
}

// BlockHandler hands new heads from the chain poller to the transaction tracker.
// The poller follows the latest block, so reorg notifications are forwarded too.
type BlockHandler struct {
	BlockChannel chan *ethereum.EthereumBlock
	ReorgChannel chan uint64
	logger       *zap.Logger

	mu        sync.Mutex
	lastBlock uint64
}

func NewBlockHandler(
	logger *zap.Logger,
) *BlockHandler {
	return &BlockHandler{
		// receipts are checked per block, a short buffer absorbs slow RPC responses
		BlockChannel: make(chan *ethereum.EthereumBlock, 100),
		ReorgChannel: make(chan uint64, 10),
		logger:       logger,
	}
}

func (h *BlockHandler) ListenToChannel(ctx context.Context, handleFunc func(*ethereum.EthereumBlock)) {
	for {
		select {
		case block := <-h.BlockChannel:
			h.logger.Sugar().Debugw("BlockHandler received block", "block", block.Number.Value())
			handleFunc(block)
		case <-ctx.Done():
			h.logger.Sugar().Info("BlockHandler channel listener exiting due to context done")
			return
		}
	}
}

func (h *BlockHandler) ListenToReorgs(ctx context.Context, handleFunc func(blockNumber uint64)) {
	for {
		select {
		case blockNumber := <-h.ReorgChannel:
			h.logger.Sugar().Infow("BlockHandler received reorg", "block", blockNumber)
			handleFunc(blockNumber)
		case <-ctx.Done():
			return
		}
	}
}

// LastBlock returns the highest block number forwarded so far.
func (h *BlockHandler) LastBlock() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastBlock
}

// HandleBlock forwards blocks newer than the last one seen; repeats are dropped.
func (h *BlockHandler) HandleBlock(ctx context.Context, block *ethereum.EthereumBlock) error {
	number := block.Number.Value()

	h.mu.Lock()
	if number <= h.lastBlock {
		h.mu.Unlock()
		h.logger.Sugar().Debugw("Ignoring already seen block", "block", number)
		return nil
	}
	h.lastBlock = number
	h.mu.Unlock()

	select {
	case h.BlockChannel <- block:
		h.logger.Sugar().Debugw("Block sent to channel", "block", number)
	case <-ctx.Done():
		h.logger.Sugar().Warnw("Context done before sending block to channel", "block", number)
	default:
		h.logger.Sugar().Warnw("Block channel is full, dropping block", "block", number)
	}
	return nil
}

func (h *BlockHandler) HandleLog(ctx context.Context, logWithBlock *chainPoller.LogWithBlock) error {
	// claim receipts are read per transaction, logs are not needed
	return nil
}

// HandleReorgBlock rewinds the high-water mark so the replacement block is
// forwarded, and notifies reorg listeners.
func (h *BlockHandler) HandleReorgBlock(ctx context.Context, blockNumber uint64) {
	h.mu.Lock()
	if blockNumber > 0 && blockNumber <= h.lastBlock {
		h.lastBlock = blockNumber - 1
	}
	h.mu.Unlock()

	select {
	case h.ReorgChannel <- blockNumber:
	default:
		h.logger.Sugar().Warnw("Reorg channel is full, dropping reorg notification", "block", blockNumber)
	}
}
