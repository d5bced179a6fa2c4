package tracker

import (
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/metrics"
)

const subsystem = "tracker"

var (
	settledTransactions = metrics.NewCounter(
		"settled_total",
		subsystem,
		"tracked transactions settled by receipt status",
		[]string{"status"},
	)
	reorgedTransactions = metrics.NewCounter(
		"reorged_total",
		subsystem,
		"settled transactions returned to pending by a reorg",
		[]string{},
	).WithLabelValues()
	lastProcessedBlock = metrics.NewGauge(
		"last_processed_block",
		subsystem,
		"last block whose receipts were checked",
		[]string{},
	).WithLabelValues()
)
