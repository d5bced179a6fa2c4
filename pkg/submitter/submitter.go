// Package submitter is the single path every contract write goes through:
// price the call, send it, record it with the tracker, and turn failures into
// normalized provider errors reported to diagnostics.
package submitter

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/contractCaller"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/diagnostics"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/providerError"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/tracker"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// TransactionRecorder is satisfied by *tracker.Tracker.
type TransactionRecorder interface {
	Record(hash common.Hash, from common.Address, meta tracker.Metadata) error
}

type EstimateFunc func(ctx context.Context) (*contractCaller.GasInfo, error)

type SendFunc func(ctx context.Context, gas *contractCaller.GasInfo) (*ethTypes.Transaction, error)

// Request describes one contract write.
type Request struct {
	// Title names the calling operation in diagnostics.
	Title string
	// Method is the contract method name.
	Method string
	// Args are the call arguments as passed to the contract.
	Args []interface{}

	From     common.Address
	Summary  string
	ClaimKey string

	Estimate EstimateFunc
	Send     SendFunc
}

type Submitter struct {
	recorder TransactionRecorder
	reporter diagnostics.Reporter
	logger   *zap.Logger
}

func NewSubmitter(recorder TransactionRecorder, reporter diagnostics.Reporter, logger *zap.Logger) *Submitter {
	return &Submitter{
		recorder: recorder,
		reporter: reporter,
		logger:   logger,
	}
}

// Submit estimates gas, sends, and records the transaction. Any failure is
// returned as a *providerError.ProviderError. User rejections are returned
// without being reported.
func (s *Submitter) Submit(ctx context.Context, req *Request) (*ethTypes.Transaction, error) {
	if req.Estimate == nil || req.Send == nil {
		return nil, fmt.Errorf("submit %s: estimate and send are required", req.Method)
	}

	gas, err := req.Estimate(ctx)
	if err != nil {
		return nil, s.fail(req, err)
	}

	tx, err := req.Send(ctx, gas)
	if err != nil {
		return nil, s.fail(req, err)
	}

	if err := s.recorder.Record(tx.Hash(), req.From, tracker.Metadata{
		Summary:  req.Summary,
		ClaimKey: req.ClaimKey,
	}); err != nil {
		// the node accepted the transaction; only local tracking is lost
		s.logger.Sugar().Errorw("Failed to record submitted transaction",
			"hash", tx.Hash().Hex(),
			"method", req.Method,
			"error", err,
		)
	}

	submissions.WithLabelValues(req.Method, resultSubmitted).Inc()
	s.logger.Sugar().Infow("Transaction submitted",
		"hash", tx.Hash().Hex(),
		"method", req.Method,
		"summary", req.Summary,
		"gasPrice", gas.GasPrice.String(),
		"gasLimit", gas.GasLimit,
	)
	return tx, nil
}

func (s *Submitter) fail(req *Request, err error) *providerError.ProviderError {
	pe := providerError.Normalize(err)

	if pe.Kind == providerError.Kind_UserRejected {
		submissions.WithLabelValues(req.Method, resultRejected).Inc()
		s.logger.Sugar().Debugw("Transaction rejected by user", "method", req.Method)
		return pe
	}
	submissions.WithLabelValues(req.Method, resultFailed).Inc()

	s.logger.Sugar().Warnw("Transaction submission failed",
		"method", req.Method,
		"kind", pe.Kind,
		"code", pe.Code,
		"message", pe.Message,
	)

	if s.reporter != nil {
		s.reporter.Report(&diagnostics.Event{
			Title:   req.Title,
			Message: pe.Message,
			Method:  req.Method,
			Args:    types.SerializeArgs(req.Args...),
			Action:  pe.Action(),
		})
	}
	return pe
}
