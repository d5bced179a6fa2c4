package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
)

// MarshalTransactionRecord serializes a TransactionRecord to JSON bytes.
func MarshalTransactionRecord(record *types.TransactionRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("cannot marshal nil TransactionRecord")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TransactionRecord to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalTransactionRecord deserializes a TransactionRecord from JSON bytes.
func UnmarshalTransactionRecord(data []byte) (*types.TransactionRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var record types.TransactionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to TransactionRecord: %w", err)
	}

	return &record, nil
}

// MarshalClaimState serializes ClaimState to JSON bytes.
func MarshalClaimState(cs *types.ClaimState) ([]byte, error) {
	if cs == nil {
		return nil, fmt.Errorf("cannot marshal nil ClaimState")
	}

	return json.Marshal(cs)
}

// UnmarshalClaimState deserializes ClaimState from JSON bytes.
func UnmarshalClaimState(data []byte) (*types.ClaimState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var cs types.ClaimState
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to ClaimState: %w", err)
	}

	return &cs, nil
}

// MarshalTrackerState serializes TrackerState to JSON bytes.
func MarshalTrackerState(ts *TrackerState) ([]byte, error) {
	if ts == nil {
		return nil, fmt.Errorf("cannot marshal nil TrackerState")
	}

	return json.Marshal(ts)
}

// UnmarshalTrackerState deserializes TrackerState from JSON bytes.
func UnmarshalTrackerState(data []byte) (*TrackerState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var ts TrackerState
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to TrackerState: %w", err)
	}

	return &ts, nil
}
