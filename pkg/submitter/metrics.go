package submitter

import (
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/metrics"
)

const subsystem = "submitter"

const (
	resultSubmitted = "submitted"
	resultRejected  = "rejected"
	resultFailed    = "failed"
)

var submissions = metrics.NewCounter(
	"submissions_total",
	subsystem,
	"transaction submissions by contract method and result",
	[]string{"method", "result"},
)
