package daolist

import (
	"context"
	"sync"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/daoServer"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"go.uber.org/zap"
)

// Membership tracks whether account has joined one DAO and the DAO's member
// count, adjusting the count locally after a successful join or leave.
type Membership struct {
	backend    Backend
	account    string
	chainId    config.ChainId
	daoAddress string
	logger     *zap.Logger

	mu      sync.RWMutex
	joined  bool
	members int
}

func NewMembership(backend Backend, account string, chainId config.ChainId, daoAddress string, joined bool, members int, logger *zap.Logger) *Membership {
	return &Membership{
		backend:    backend,
		account:    account,
		chainId:    chainId,
		daoAddress: daoAddress,
		logger:     logger,
		joined:     joined,
		members:    members,
	}
}

// Switch joins (join=true) or leaves the DAO. Without an account or signature
// it does nothing.
func (m *Membership) Switch(ctx context.Context, join bool, signature string) error {
	if m.account == "" || signature == "" {
		return nil
	}

	err := m.backend.SwitchJoinDao(ctx, &daoServer.SwitchJoinRequest{
		Account:    m.account,
		ChainId:    m.chainId,
		DaoAddress: m.daoAddress,
		Join:       join,
		Signature:  signature,
	})
	if err != nil {
		m.logger.Sugar().Warnw("Failed to switch DAO membership", "dao", m.daoAddress, "join", join, "error", err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.joined = join
	if join {
		m.members++
	} else {
		m.members--
	}
	return nil
}

func (m *Membership) Joined() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.joined
}

func (m *Membership) Members() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members
}
