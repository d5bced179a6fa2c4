// Package app assembles the claimer from its configuration. Application owns
// every long-lived component and is the only place they are wired together.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/airdrop"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/blockHandler"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/daoServer"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller/caller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/daolist"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/diagnostics"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/eligibility"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/governance"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/merkle"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence/badger"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence/memory"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence/redis"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/submitter"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/tracker"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/transactionSigner"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// EthBackend is satisfied by *ethclient.Client.
type EthBackend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethTypes.Receipt, error)
}

type Options struct {
	Config  *config.ClaimerConfig
	Backend EthBackend
	// Prompt, when set, asks before every signature.
	Prompt transactionSigner.PromptFunc
	// Diagnostics overrides the backend error intake.
	Diagnostics *diagnostics.Config
}

type Application struct {
	Config *config.ClaimerConfig

	Store        persistence.ITransactionPersistence
	Tracker      *tracker.Tracker
	BlockHandler *blockHandler.BlockHandler
	DaoServer    *daoServer.Client
	Diagnostics  *diagnostics.Sink
	Resolver     *eligibility.Resolver
	// Signer is nil when no signing source is configured.
	Signer     transactionSigner.ITransactionSigner
	Caller     *caller.ContractCaller
	Submitter  *submitter.Submitter
	Claims     *airdrop.Controller
	Governance *governance.Service
	HomeList   *daolist.HomeList
	Tokens     *daolist.TokenList

	logger *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	closed  bool
}

// New builds every component. The backend must serve the configured chain.
func New(ctx context.Context, opts *Options, logger *zap.Logger) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	chainId, err := opts.Backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}
	if chainId.Uint64() != uint64(cfg.ChainID) {
		return nil, fmt.Errorf("rpc serves chain %s, configured for %d", chainId.String(), cfg.ChainID)
	}

	store, err := NewStore(&cfg.Persistence, logger)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:       cfg,
		Store:        store,
		Tracker:      tracker.NewTracker(store, opts.Backend, logger),
		BlockHandler: blockHandler.NewBlockHandler(logger),
		logger:       logger,
	}

	a.DaoServer, err = daoServer.NewClient(daoServer.DefaultConfig(cfg.ServerUrl), logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create dao server client: %w", err)
	}
	a.Diagnostics = diagnostics.NewSink(a.DaoServer, opts.Diagnostics, logger)
	a.Resolver = eligibility.NewResolver(a.DaoServer, logger)

	if cfg.CanSign() {
		signer, err := transactionSigner.NewTransactionSigner(ctx, &transactionSigner.SignerConfig{
			PrivateKey:    cfg.PrivateKey,
			Web3SignerUrl: cfg.Web3SignerUrl,
			FromAddress:   cfg.Account,
		}, opts.Backend, logger)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create transaction signer: %w", err)
		}
		if opts.Prompt != nil {
			signer = transactionSigner.NewConfirmingSigner(signer, opts.Prompt)
		}
		a.Signer = signer
	}

	a.Caller, err = caller.NewContractCaller(opts.Backend, a.Signer, common.HexToAddress(cfg.AirdropAddress), logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a.Submitter = submitter.NewSubmitter(a.Tracker, a.Diagnostics, logger)
	a.Claims = airdrop.NewController(a.Resolver, a.Caller, a.Submitter, a.Tracker, store, logger)
	a.Tracker.OnSettled(a.Claims.HandleSettled)
	a.Governance = governance.NewService(a.Caller, a.Submitter, a.DaoServer, logger)
	a.HomeList = daolist.NewHomeList(a.DaoServer, logger)
	a.Tokens = daolist.NewTokenList(a.DaoServer, logger)

	return a, nil
}

// NewStore opens the configured persistence backend; memory when unset.
func NewStore(cfg *config.PersistenceConfig, logger *zap.Logger) (persistence.ITransactionPersistence, error) {
	switch cfg.Type {
	case "", config.PersistenceType_Memory:
		return memory.NewMemoryPersistence(), nil
	case config.PersistenceType_Badger:
		store, err := badger.NewBadgerPersistence(cfg.DataPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return store, nil
	case config.PersistenceType_Redis:
		if cfg.Redis == nil {
			return nil, errors.New("redis settings are required")
		}
		store, err := redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported persistence type %q", cfg.Type)
	}
}

// Account is the account claims are made for: the signer's address, else the
// configured read-only account, else nil.
func (a *Application) Account() *common.Address {
	if a.Signer != nil {
		from := a.Signer.GetFromAddress()
		return &from
	}
	if common.IsHexAddress(a.Config.Account) {
		acct := common.HexToAddress(a.Config.Account)
		return &acct
	}
	return nil
}

// Start launches diagnostics delivery and the block listeners that settle
// tracked transactions, then issues the eligibility lookup for Account.
func (a *Application) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return errors.New("application is closed")
	}
	if a.started {
		return nil
	}
	a.started = true

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Diagnostics.Start(runCtx)

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.BlockHandler.ListenToChannel(runCtx, func(block *ethereum.EthereumBlock) {
			if err := a.Tracker.HandleBlock(runCtx, block.Number.Value()); err != nil {
				a.logger.Sugar().Warnw("Failed to process block", "block", block.Number.Value(), "error", err)
			}
		})
	}()
	go func() {
		defer a.wg.Done()
		a.BlockHandler.ListenToReorgs(runCtx, func(blockNumber uint64) {
			if err := a.Tracker.HandleReorg(blockNumber); err != nil {
				a.logger.Sugar().Warnw("Failed to process reorg", "block", blockNumber, "error", err)
			}
		})
	}()

	if acct := a.Account(); acct != nil {
		a.Resolver.SetAccount(runCtx, acct)
	}

	a.logger.Sugar().Infow("Claimer started",
		"chain", a.Config.Chain.Name,
		"distributor", a.Config.AirdropAddress,
		"persistence", a.Config.Persistence.Type,
		"canSign", a.Signer != nil,
	)
	return nil
}

// VerifyProof checks proof against the root published by the distributor.
func (a *Application) VerifyProof(ctx context.Context, proof *types.MerkleProof) (bool, error) {
	root, err := a.Caller.GetMerkleRoot(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read merkle root: %w", err)
	}
	return merkle.VerifyClaim(proof, root), nil
}

// AirdropTokenSupply reads the distributor's token and that token's total
// supply in base units.
func (a *Application) AirdropTokenSupply(ctx context.Context) (common.Address, *big.Int, error) {
	token, err := a.Caller.GetAirdropToken(ctx)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to read airdrop token: %w", err)
	}
	supply, err := a.Caller.GetTokenTotalSupply(ctx, token)
	if err != nil {
		return token, nil, fmt.Errorf("failed to read total supply: %w", err)
	}
	return token, supply, nil
}

// RunRefresh refreshes the home DAO list every configured period until ctx is done.
func (a *Application) RunRefresh(ctx context.Context) {
	a.HomeList.Run(ctx, a.Config.RefreshPeriod)
}

// Close stops background work and releases the store. Safe to call twice.
func (a *Application) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	cancel := a.cancel
	a.mu.Unlock()

	a.Resolver.SetAccount(context.Background(), nil)
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
	a.Diagnostics.Close()

	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
