package blockHandler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBlock(n uint64) *ethereum.EthereumBlock {
	return &ethereum.EthereumBlock{
		Number:    ethereum.EthereumQuantity(n),
		Hash:      ethereum.EthereumHexString("0x123"),
		Timestamp: ethereum.EthereumQuantity(time.Now().Unix()),
	}
}

func Test_BlockHandler(t *testing.T) {
	t.Run("ReceiveFromPoller", func(t *testing.T) {
		logger, _ := zap.NewDevelopment()
		bh := NewBlockHandler(logger)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var receivedBlocks []uint64
		var mu sync.Mutex

		go bh.ListenToChannel(ctx, func(block *ethereum.EthereumBlock) {
			mu.Lock()
			defer mu.Unlock()
			receivedBlocks = append(receivedBlocks, block.Number.Value())
		})

		testBlocks := []uint64{1, 2, 5, 10, 15}
		for _, blockNum := range testBlocks {
			require.NoError(t, bh.HandleBlock(ctx, newBlock(blockNum)))
		}

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(receivedBlocks) == len(testBlocks)
		}, 2*time.Second, 10*time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, testBlocks, receivedBlocks)
		assert.Equal(t, uint64(15), bh.LastBlock())
	})

	t.Run("DropsRepeatedBlocks", func(t *testing.T) {
		logger, _ := zap.NewDevelopment()
		bh := NewBlockHandler(logger)
		ctx := context.Background()

		require.NoError(t, bh.HandleBlock(ctx, newBlock(5)))
		require.NoError(t, bh.HandleBlock(ctx, newBlock(5)))
		require.NoError(t, bh.HandleBlock(ctx, newBlock(4)))

		assert.Len(t, bh.BlockChannel, 1)
	})

	t.Run("ReorgRewindsAndNotifies", func(t *testing.T) {
		logger, _ := zap.NewDevelopment()
		bh := NewBlockHandler(logger)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, n := range []uint64{10, 11, 12} {
			require.NoError(t, bh.HandleBlock(ctx, newBlock(n)))
		}

		reorgs := make(chan uint64, 1)
		go bh.ListenToReorgs(ctx, func(blockNumber uint64) {
			reorgs <- blockNumber
		})

		bh.HandleReorgBlock(ctx, 11)
		assert.Equal(t, uint64(10), bh.LastBlock())

		select {
		case n := <-reorgs:
			assert.Equal(t, uint64(11), n)
		case <-ctx.Done():
			t.Fatal("reorg notification not delivered")
		}

		// the replacement block 11 is forwarded again
		require.NoError(t, bh.HandleBlock(ctx, newBlock(11)))
		assert.Len(t, bh.BlockChannel, 4)
	})

	t.Run("FullChannelDropsBlock", func(t *testing.T) {
		logger, _ := zap.NewDevelopment()
		bh := NewBlockHandler(logger)
		ctx := context.Background()

		for i := uint64(1); i <= uint64(cap(bh.BlockChannel))+5; i++ {
			require.NoError(t, bh.HandleBlock(ctx, newBlock(i)))
		}
		assert.Len(t, bh.BlockChannel, cap(bh.BlockChannel))
	})

	t.Run("HandleLogIsNoop", func(t *testing.T) {
		logger, _ := zap.NewDevelopment()
		bh := NewBlockHandler(logger)
		assert.NoError(t, bh.HandleLog(context.Background(), nil))
	})
}
