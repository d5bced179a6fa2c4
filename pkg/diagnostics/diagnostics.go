// Package diagnostics forwards transaction failures to the backend error intake
// and emits a structured analytics event for each. Reporting is best effort:
// it never blocks the caller and delivery failures are only logged.
package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/daoServer"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Event describes one failed provider call.
type Event struct {
	// Title names the operation that failed, e.g. "useClaimAirdropCallback".
	Title string
	// Message is the normalized provider message.
	Message string
	// Method is the contract method that was being called.
	Method string
	// Args is the JSON-serialized call argument list.
	Args string
	// Action concatenates every message layer the provider returned.
	Action string
}

// Category is the analytics category for the event.
func (e *Event) Category() string {
	return fmt.Sprintf("catch-%s", e.Method)
}

type Reporter interface {
	Report(e *Event)
}

type ErrorCommitter interface {
	CommitErrorMsg(ctx context.Context, report *daoServer.ErrorReport) error
}

type Config struct {
	QueueSize     int
	RatePerSecond float64
	Burst         int
	SubmitTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		QueueSize:     64,
		RatePerSecond: 1,
		Burst:         5,
		SubmitTimeout: 10 * time.Second,
	}
}

type Sink struct {
	committer ErrorCommitter
	config    *Config
	limiter   *rate.Limiter
	logger    *zap.Logger

	queue  chan *Event
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewSink(committer ErrorCommitter, cfg *Config, logger *zap.Logger) *Sink {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Sink{
		committer: committer,
		config:    cfg,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:    logger,
		queue:     make(chan *Event, cfg.QueueSize),
	}
}

// Start launches the delivery worker. Events reported before Start are buffered.
func (s *Sink) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Report enqueues e without blocking; the event is dropped if the queue is full
// or the sink is closed.
func (s *Sink) Report(e *Event) {
	if e == nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.queue <- e:
	default:
		s.logger.Sugar().Debugw("Diagnostics queue full, dropping event", "method", e.Method)
	}
}

// Close stops accepting events and waits for the worker to drain the queue.
func (s *Sink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sink) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-s.queue:
			if !ok {
				return
			}
			s.deliver(ctx, e)
		}
	}
}

func (s *Sink) deliver(ctx context.Context, e *Event) {
	reportId := uuid.New().String()

	s.logger.Sugar().Infow("Provider call failed",
		"category", e.Category(),
		"action", e.Action,
		"label", e.Args,
		"title", e.Title,
		"reportId", reportId,
	)

	if !s.limiter.Allow() {
		s.logger.Sugar().Debugw("Diagnostics rate limited, not committing", "reportId", reportId)
		return
	}

	content, err := json.Marshal(e.Message)
	if err != nil {
		content = []byte(fmt.Sprintf("%q", e.Message))
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.config.SubmitTimeout)
	defer cancel()

	err = s.committer.CommitErrorMsg(submitCtx, &daoServer.ErrorReport{
		Title:   e.Title,
		Content: string(content),
		Func:    e.Method,
		Params:  e.Args,
	})
	if err != nil {
		s.logger.Sugar().Debugw("Failed to commit diagnostics", "reportId", reportId, "error", err)
	}
}
