package diagnostics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/clients/daoServer"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCommitter struct {
	mu      sync.Mutex
	reports []*daoServer.ErrorReport
	err     error
	block   chan struct{}
}

func (r *recordingCommitter) CommitErrorMsg(ctx context.Context, report *daoServer.ErrorReport) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

func (r *recordingCommitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func newTestSink(t *testing.T, c ErrorCommitter, cfg *Config) *Sink {
	t.Helper()
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)
	return NewSink(c, cfg, l)
}

func TestSink_DeliversReport(t *testing.T) {
	committer := &recordingCommitter{}
	sink := newTestSink(t, committer, nil)
	sink.Start(context.Background())

	sink.Report(&Event{
		Title:   "useClaimAirdropCallback",
		Message: "execution reverted",
		Method:  "claim",
		Args:    `[3,"0xAAA","1000000000000000000",["0x11"]]`,
	})
	sink.Close()

	require.Equal(t, 1, committer.count())
	report := committer.reports[0]
	assert.Equal(t, "useClaimAirdropCallback", report.Title)
	assert.Equal(t, `"execution reverted"`, report.Content)
	assert.Equal(t, "claim", report.Func)
	assert.Equal(t, `[3,"0xAAA","1000000000000000000",["0x11"]]`, report.Params)
}

func TestSink_CommitFailureIgnored(t *testing.T) {
	committer := &recordingCommitter{err: errors.New("server down")}
	sink := newTestSink(t, committer, nil)
	sink.Start(context.Background())

	sink.Report(&Event{Method: "claim", Message: "boom"})
	sink.Close()

	assert.Equal(t, 1, committer.count())
}

func TestSink_ReportNeverBlocks(t *testing.T) {
	committer := &recordingCommitter{block: make(chan struct{})}
	cfg := DefaultConfig()
	cfg.QueueSize = 1
	sink := newTestSink(t, committer, cfg)
	sink.Start(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			sink.Report(&Event{Method: "claim"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked with a stuck committer")
	}

	close(committer.block)
	sink.Close()
}

func TestSink_RateLimited(t *testing.T) {
	committer := &recordingCommitter{}
	cfg := DefaultConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 2
	sink := newTestSink(t, committer, cfg)

	for i := 0; i < 5; i++ {
		sink.Report(&Event{Method: "claim"})
	}
	sink.Start(context.Background())
	sink.Close()

	assert.Equal(t, 2, committer.count())
}

func TestSink_ReportAfterClose(t *testing.T) {
	committer := &recordingCommitter{}
	sink := newTestSink(t, committer, nil)
	sink.Start(context.Background())
	sink.Close()
	sink.Close()

	sink.Report(&Event{Method: "claim"})
	sink.Report(nil)
	assert.Equal(t, 0, committer.count())
}

func TestEvent_Category(t *testing.T) {
	e := &Event{Method: "vote"}
	assert.Equal(t, "catch-vote", e.Category())
}
