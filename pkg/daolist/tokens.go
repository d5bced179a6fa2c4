package daolist

import (
	"context"
	"sync"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/daoServer"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"go.uber.org/zap"
)

type TokenView struct {
	Page   Page                    `json:"page"`
	Result []*daoServer.TokenEntry `json:"result"`
}

// TokenList pages through the tokens an account holds on a chain. A zero chain
// id lists every supported chain.
type TokenList struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.RWMutex
	account string
	chainId config.ChainId
	current int
	total   int
	result  []*daoServer.TokenEntry
}

func NewTokenList(backend Backend, logger *zap.Logger) *TokenList {
	return &TokenList{
		backend: backend,
		logger:  logger,
		current: 1,
		result:  []*daoServer.TokenEntry{},
	}
}

// SetOwner switches account and chain; either change returns to the first page.
func (t *TokenList) SetOwner(ctx context.Context, account string, chainId config.ChainId) error {
	t.mu.Lock()
	if t.account != account || t.chainId != chainId {
		t.account = account
		t.chainId = chainId
		t.current = 1
	}
	t.mu.Unlock()
	return t.Load(ctx)
}

func (t *TokenList) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	t.mu.Lock()
	t.current = page
	t.mu.Unlock()
	return t.Load(ctx)
}

// Load fetches the current page. A failure clears the list.
func (t *TokenList) Load(ctx context.Context) error {
	t.mu.RLock()
	account, chainId, current := t.account, t.chainId, t.current
	t.mu.RUnlock()

	page, err := t.backend.GetTokenList(ctx, chainId, account, offset(current, TokenPageSize), TokenPageSize)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.logger.Sugar().Warnw("Failed to load token list", "account", account, "chainId", chainId, "error", err)
		t.result = []*daoServer.TokenEntry{}
		t.total = 0
		return err
	}
	t.result = page.List
	t.total = page.Total
	return nil
}

func (t *TokenList) View() *TokenView {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]*daoServer.TokenEntry, len(t.result))
	copy(result, t.result)
	return &TokenView{
		Page:   newPage(t.current, t.total, TokenPageSize),
		Result: result,
	}
}
