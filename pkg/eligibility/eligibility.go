// Package eligibility resolves whether the connected account is on the airdrop
// allow-list. Lookups run in the background; every response is tagged with the
// account and request id it was issued for, and is dropped on arrival if the
// account changed in the meantime.
package eligibility

import (
	"context"
	"math/big"
	"sync"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProofFetcher looks up the allow-list proof for an account.
// It returns (nil, nil) when the account has no record.
type ProofFetcher interface {
	GetProof(ctx context.Context, account common.Address) (*types.MerkleProof, error)
}

// Resolution is an issued eligibility answer for one account. Proof is nil
// unless the account is whitelisted.
type Resolution struct {
	Account common.Address
	Proof   *types.MerkleProof
	Result  *types.EligibilityResult
}

type request struct {
	id      uuid.UUID
	account common.Address
	done    chan struct{}
}

type Resolver struct {
	fetcher ProofFetcher
	logger  *zap.Logger

	mu         sync.RWMutex
	account    *common.Address
	current    *request
	cancel     context.CancelFunc
	resolution *Resolution
	lastErr    error
}

func NewResolver(fetcher ProofFetcher, logger *zap.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Evaluate derives the eligibility result from a proof lookup.
// A present proof with a zero amount is ineligible.
func Evaluate(proof *types.MerkleProof) *types.EligibilityResult {
	if proof == nil || proof.Amount == nil {
		return &types.EligibilityResult{IsWhitelisted: false, Amount: big.NewInt(0)}
	}
	return &types.EligibilityResult{
		IsWhitelisted: proof.Amount.Sign() > 0,
		Amount:        new(big.Int).Set(proof.Amount),
	}
}

// SetAccount switches the resolver to account (nil = disconnected). The previous
// result is cleared immediately and a new lookup is issued in the background.
// Setting the account that is already active is a no-op unless its last lookup
// failed, in which case the lookup is retried. Use Refresh to re-issue regardless.
func (r *Resolver) SetAccount(ctx context.Context, account *common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account != nil && r.account != nil && *account == *r.account && !r.failedLocked() {
		return
	}
	r.issueLocked(ctx, account)
}

func (r *Resolver) failedLocked() bool {
	return r.current == nil && r.resolution == nil && r.lastErr != nil
}

// Refresh re-issues the lookup for the current account.
func (r *Resolver) Refresh(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.issueLocked(ctx, r.account)
}

func (r *Resolver) issueLocked(ctx context.Context, account *common.Address) {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.current != nil {
		close(r.current.done)
		r.current = nil
	}
	r.resolution = nil
	r.lastErr = nil

	if account == nil {
		r.account = nil
		return
	}

	acct := *account
	r.account = &acct

	fetchCtx, cancel := context.WithCancel(ctx)
	req := &request{
		id:      uuid.New(),
		account: acct,
		done:    make(chan struct{}),
	}
	r.current = req
	r.cancel = cancel

	r.logger.Sugar().Debugw("Issuing eligibility lookup", "account", acct.Hex(), "requestId", req.id.String())
	go r.fetch(fetchCtx, req)
}

func (r *Resolver) fetch(ctx context.Context, req *request) {
	proof, err := r.fetcher.GetProof(ctx, req.account)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil || r.current.id != req.id {
		r.logger.Sugar().Debugw("Discarding superseded eligibility response",
			"account", req.account.Hex(), "requestId", req.id.String())
		return
	}

	if err != nil {
		r.logger.Sugar().Warnw("Eligibility lookup failed", "account", req.account.Hex(), "error", err)
		r.lastErr = err
	} else {
		if proof != nil && proof.Account != req.account {
			r.logger.Sugar().Warnw("Proof account mismatch, treating as no record",
				"account", req.account.Hex(), "proofAccount", proof.Account.Hex())
			proof = nil
		}
		result := Evaluate(proof)
		if proof != nil && !result.IsWhitelisted {
			r.logger.Sugar().Debugw("Proof present with zero amount", "account", req.account.Hex())
		}

		res := &Resolution{Account: req.account, Result: result}
		if result.IsWhitelisted {
			res.Proof = proof
		}
		r.resolution = res
	}

	close(req.done)
	r.current = nil
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Account returns the active account, or nil when disconnected.
func (r *Resolver) Account() *common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.account == nil {
		return nil
	}
	acct := *r.account
	return &acct
}

// Result returns the eligibility of the active account, or nil when unknown:
// no account, lookup in flight, or lookup failed.
func (r *Resolver) Result() *types.EligibilityResult {
	res := r.Resolution()
	if res == nil {
		return nil
	}
	return res.Result
}

// Resolution returns the issued answer for the active account, or nil when unknown.
func (r *Resolver) Resolution() *Resolution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.resolution == nil {
		return nil
	}
	res := *r.resolution
	return &res
}

// Loading reports whether a lookup is in flight.
func (r *Resolver) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current != nil
}

// Await blocks until the lookup for the active account settles and returns its
// resolution together with the lookup error, if any. A superseded lookup keeps
// Await waiting on its replacement.
func (r *Resolver) Await(ctx context.Context) (*Resolution, error) {
	for {
		r.mu.RLock()
		req := r.current
		res, err := r.resolution, r.lastErr
		r.mu.RUnlock()

		if req == nil {
			if res == nil {
				return nil, err
			}
			out := *res
			return &out, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-req.done:
		}
	}
}
