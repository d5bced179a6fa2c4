// Package airdrop drives a single claim of the Merkle airdrop for the active
// account. The local ClaimState it keeps is advisory; the distributor's
// isClaimed view is always consulted before a new submission.
package airdrop

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/eligibility"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/providerError"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/submitter"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const (
	claimTitle   = "useClaimAirdropCallback"
	claimMethod  = "claim"
	claimSummary = "Claim airdrop"

	revertedReason = "claim transaction reverted"
)

var (
	ErrNoAccount       = errors.New("no account connected")
	ErrNotEligible     = errors.New("account is not eligible for the airdrop")
	ErrAlreadyClaimed  = errors.New("airdrop already claimed")
	ErrClaimInProgress = errors.New("a claim is already in progress")
)

const claimKeySuffix = "_claim_airdrop"

// ClaimKey is the tracker key a claim by account is recorded under.
func ClaimKey(account common.Address) string {
	return account.Hex() + claimKeySuffix
}

// EligibilitySource is satisfied by *eligibility.Resolver.
type EligibilitySource interface {
	Account() *common.Address
	Resolution() *eligibility.Resolution
}

// PendingChecker is satisfied by *tracker.Tracker.
type PendingChecker interface {
	IsPending(key string) (bool, error)
}

// ClaimStateStore is satisfied by every persistence.ITransactionPersistence.
type ClaimStateStore interface {
	SaveClaimState(state *types.ClaimState) error
	LoadClaimState(account common.Address) (*types.ClaimState, error)
}

type Controller struct {
	resolver  EligibilitySource
	caller    contractCaller.IContractCaller
	submitter *submitter.Submitter
	pending   PendingChecker
	store     ClaimStateStore
	logger    *zap.Logger

	mu     sync.Mutex
	states map[common.Address]*types.ClaimState
}

func NewController(
	resolver EligibilitySource,
	caller contractCaller.IContractCaller,
	sub *submitter.Submitter,
	pending PendingChecker,
	store ClaimStateStore,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		resolver:  resolver,
		caller:    caller,
		submitter: sub,
		pending:   pending,
		store:     store,
		logger:    logger,
		states:    make(map[common.Address]*types.ClaimState),
	}
}

// Claim submits the claim for the resolver's active account.
//
// A refused precondition returns one of the package sentinel errors and leaves
// no trace. A declined signature returns the state to NotClaimed together with
// providerError.ErrUserRejected. Any other failure moves the state to Failed and
// returns the normalized *providerError.ProviderError. A Submitted state whose
// transaction the tracker no longer holds pending does not block a new attempt.
func (c *Controller) Claim(ctx context.Context) (*types.ClaimState, error) {
	account := c.resolver.Account()
	if account == nil {
		return nil, ErrNoAccount
	}

	res := c.resolver.Resolution()
	if res == nil || res.Account != *account || res.Result == nil || !res.Result.IsWhitelisted || res.Proof == nil {
		return nil, ErrNotEligible
	}
	proof := res.Proof

	c.mu.Lock()
	state, err := c.loadLocked(*account)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	seen := copyState(state)
	c.mu.Unlock()

	if seen.Status == types.ClaimStatus_Submitting {
		return seen, ErrClaimInProgress
	}

	pending, err := c.pending.IsPending(ClaimKey(*account))
	switch {
	case err != nil:
		c.logger.Sugar().Warnw("Failed to check pending claims", "account", account.Hex(), "error", err)
		if seen.Status.InFlight() {
			return seen, ErrClaimInProgress
		}
	case pending:
		return c.State(*account), ErrClaimInProgress
	case seen.Status.InFlight():
		// the tracker no longer holds the transaction, it settled while nobody listened
		c.logger.Sugar().Infow("Ignoring stale claim state",
			"account", account.Hex(),
			"status", seen.Status,
			"txHash", seen.TxHash.Hex(),
		)
	}

	claimed, err := c.caller.IsClaimed(ctx, *account)
	if err != nil {
		// unknown is not a refusal; the distributor rejects a double claim on-chain
		c.logger.Sugar().Warnw("isClaimed unavailable, continuing", "account", account.Hex(), "error", err)
	} else if claimed {
		return nil, ErrAlreadyClaimed
	}

	// the check above ran unlocked, a concurrent Claim may have won the race
	c.mu.Lock()
	state, err = c.loadLocked(*account)
	if err == nil && state.Status.InFlight() && (state.Status != seen.Status || state.TxHash != seen.TxHash) {
		err = ErrClaimInProgress
	}
	if err != nil {
		c.mu.Unlock()
		return copyState(state), err
	}
	c.setLocked(&types.ClaimState{Account: *account, Status: types.ClaimStatus_Submitting})
	c.mu.Unlock()

	params := &contractCaller.ClaimParams{
		Index:   new(big.Int).SetUint64(proof.Index),
		Account: proof.Account,
		Amount:  new(big.Int).Set(proof.Amount),
		Proof:   proof.Proof,
	}

	tx, err := c.submitter.Submit(ctx, &submitter.Request{
		Title:  claimTitle,
		Method: claimMethod,
		Args: []interface{}{
			params.Index.String(),
			params.Account.Hex(),
			params.Amount.String(),
			proof.ProofHexes(),
		},
		From:     c.caller.GetFromAddress(),
		Summary:  claimSummary,
		ClaimKey: ClaimKey(*account),
		Estimate: func(ctx context.Context) (*contractCaller.GasInfo, error) {
			return c.caller.EstimateClaim(ctx, params)
		},
		Send: func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error) {
			return c.caller.Claim(ctx, params, gas)
		},
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		pe := providerError.Normalize(err)
		if pe.Kind == providerError.Kind_UserRejected {
			next := c.setLocked(&types.ClaimState{Account: *account, Status: types.ClaimStatus_NotClaimed})
			return next, providerError.ErrUserRejected
		}
		next := c.setLocked(&types.ClaimState{Account: *account, Status: types.ClaimStatus_Failed, Reason: pe.Message})
		return next, pe
	}

	c.logger.Sugar().Infow("Airdrop claim submitted",
		"account", account.Hex(),
		"index", proof.Index,
		"amount", proof.Amount.String(),
		"txHash", tx.Hash().Hex(),
	)
	return c.setLocked(&types.ClaimState{
		Account: *account,
		Status:  types.ClaimStatus_Submitted,
		TxHash:  tx.Hash(),
	}), nil
}

// State returns the local claim state for account. Accounts never seen are NotClaimed.
func (c *Controller) State(account common.Address) *types.ClaimState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.loadLocked(account)
	if err != nil {
		c.logger.Sugar().Warnw("Failed to load claim state", "account", account.Hex(), "error", err)
		return &types.ClaimState{Account: account, Status: types.ClaimStatus_NotClaimed}
	}
	return copyState(state)
}

// Status reconciles the local state with isClaimed. A true predicate always
// reads as Confirmed; a failed read falls back to the local state.
func (c *Controller) Status(ctx context.Context, account common.Address) (*types.ClaimState, error) {
	claimed, err := c.caller.IsClaimed(ctx, account)
	if err != nil {
		return c.State(account), fmt.Errorf("failed to read claim status: %w", err)
	}
	if !claimed {
		return c.State(account), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.loadLocked(account)
	if err != nil {
		return nil, err
	}
	if state.Status == types.ClaimStatus_Confirmed {
		return copyState(state), nil
	}
	return c.setLocked(&types.ClaimState{
		Account: account,
		Status:  types.ClaimStatus_Confirmed,
		TxHash:  state.TxHash,
	}), nil
}

// HandleSettled moves a submitted claim to Confirmed or Failed when the tracker
// settles its transaction, and back to Submitted if a reorg unsettles it. The
// account is taken from the record's claim key so a claim submitted by an
// earlier process is settled too.
func (c *Controller) HandleSettled(record *types.TransactionRecord) {
	if record == nil {
		return
	}
	account, ok := accountFromClaimKey(record.ClaimKey)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.loadLocked(account)
	if err != nil {
		c.logger.Sugar().Warnw("Dropping claim settlement", "txHash", record.Hash.Hex(), "error", err)
		return
	}
	if state.TxHash != record.Hash {
		return
	}

	next := &types.ClaimState{Account: account, TxHash: record.Hash}
	switch record.Status {
	case types.TxStatus_Confirmed:
		next.Status = types.ClaimStatus_Confirmed
	case types.TxStatus_Failed:
		next.Status = types.ClaimStatus_Failed
		next.Reason = revertedReason
	default:
		next.Status = types.ClaimStatus_Submitted
	}
	c.setLocked(next)
	c.logger.Sugar().Infow("Claim settled", "account", account.Hex(), "txHash", record.Hash.Hex(), "status", next.Status)
}

func accountFromClaimKey(key string) (common.Address, bool) {
	hex, ok := strings.CutSuffix(key, claimKeySuffix)
	if !ok || !common.IsHexAddress(hex) {
		return common.Address{}, false
	}
	return common.HexToAddress(hex), true
}

func (c *Controller) loadLocked(account common.Address) (*types.ClaimState, error) {
	if state, ok := c.states[account]; ok {
		return state, nil
	}

	state, err := c.store.LoadClaimState(account)
	if err != nil {
		return nil, fmt.Errorf("failed to load claim state for %s: %w", account.Hex(), err)
	}
	// Submitting only lives as long as the process that set it
	if state == nil || state.Status == types.ClaimStatus_Submitting {
		state = &types.ClaimState{Account: account, Status: types.ClaimStatus_NotClaimed}
	}
	c.states[account] = state
	return state, nil
}

func (c *Controller) setLocked(state *types.ClaimState) *types.ClaimState {
	c.states[state.Account] = state
	if err := c.store.SaveClaimState(state); err != nil {
		c.logger.Sugar().Warnw("Failed to persist claim state",
			"account", state.Account.Hex(),
			"status", state.Status,
			"error", err,
		)
	}
	return copyState(state)
}

func copyState(state *types.ClaimState) *types.ClaimState {
	if state == nil {
		return nil
	}
	c := *state
	return &c
}
