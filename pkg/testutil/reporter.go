package testutil

import (
	"sync"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/diagnostics"
)

// RecordingReporter collects diagnostics events in memory.
type RecordingReporter struct {
	mu     sync.Mutex
	events []*diagnostics.Event
}

var _ diagnostics.Reporter = (*RecordingReporter)(nil)

func (r *RecordingReporter) Report(e *diagnostics.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *RecordingReporter) Events() []*diagnostics.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*diagnostics.Event, len(r.events))
	copy(out, r.events)
	return out
}
