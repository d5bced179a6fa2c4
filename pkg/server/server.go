package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/config"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/daolist"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/eligibility"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

/*
Server exposes the claimer to a local browser front-end.

	GET  /eligibility?account=0x..    switch to account, wait for the proof lookup
	POST /claim {"account":"0x.."}     claim the airdrop for account
	GET  /claim/status?account=0x..   local claim state reconciled with isClaimed
	GET  /daos?keyword=&category=&page=  home DAO list, page size 8
	GET  /transactions                tracked transactions

Eligibility and claim share the resolver's single active account, so requests
that switch accounts are serialized.
*/

// Eligibility is satisfied by *eligibility.Resolver.
type Eligibility interface {
	SetAccount(ctx context.Context, account *common.Address)
	Await(ctx context.Context) (*eligibility.Resolution, error)
}

// Claims is satisfied by *airdrop.Controller.
type Claims interface {
	Claim(ctx context.Context) (*types.ClaimState, error)
	Status(ctx context.Context, account common.Address) (*types.ClaimState, error)
}

// TransactionLister is satisfied by *tracker.Tracker.
type TransactionLister interface {
	List() ([]*types.TransactionRecord, error)
}

type Server struct {
	eligibility Eligibility
	claims      Claims
	daos        *daolist.HomeList
	txs         TransactionLister
	token       config.TokenInfo
	validate    *validator.Validate
	logger      *zap.Logger

	// lookups outlive the request that started them
	baseCtx context.Context
	mu      sync.Mutex

	httpServer *http.Server
}

func NewServer(
	eligibility Eligibility,
	claims Claims,
	daos *daolist.HomeList,
	txs TransactionLister,
	token config.TokenInfo,
	port int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		eligibility: eligibility,
		claims:      claims,
		daos:        daos,
		txs:         txs,
		token:       token,
		validate:    validator.New(),
		logger:      logger,
		baseCtx:     context.Background(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/eligibility", s.handleEligibility)
	mux.HandleFunc("/claim", s.handleClaim)
	mux.HandleFunc("/claim/status", s.handleClaimStatus)
	mux.HandleFunc("/daos", s.handleDaos)
	mux.HandleFunc("/transactions", s.handleTransactions)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves in the background until Stop is called or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.baseCtx = ctx
	go func() {
		s.logger.Sugar().Infow("Starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Sugar().Errorw("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}

// resolve switches the resolver to account and waits for its lookup. Callers
// hold s.mu.
func (s *Server) resolve(ctx context.Context, account common.Address) (*eligibility.Resolution, error) {
	s.eligibility.SetAccount(s.baseCtx, &account)
	return s.eligibility.Await(ctx)
}
