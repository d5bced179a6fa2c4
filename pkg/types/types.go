package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MerkleProof is one allow-list leaf as issued by the distribution backend.
// It is immutable once issued; the root it proves against is published on-chain.
type MerkleProof struct {
	Index   uint64         `json:"index"`
	Account common.Address `json:"account"`
	Amount  *big.Int       `json:"amount"`
	Proof   [][32]byte     `json:"proof"`
}

// ProofHexes returns the sibling hashes as 0x-prefixed strings.
func (p *MerkleProof) ProofHexes() []string {
	out := make([]string, len(p.Proof))
	for i, h := range p.Proof {
		out[i] = hexutil.Encode(h[:])
	}
	return out
}

// EligibilityResult is derived from a proof lookup, never stored.
type EligibilityResult struct {
	IsWhitelisted bool     `json:"isWhitelisted"`
	Amount        *big.Int `json:"amount"`
}

// ProofResponse is the wire shape the backend returns for an account.
// Amount is a decimal string of token base units.
type ProofResponse struct {
	Index  uint64   `json:"index"`
	Amount string   `json:"amount"`
	Proof  []string `json:"proof"`
}

// ToMerkleProof decodes the wire response for the given account.
func (r *ProofResponse) ToMerkleProof(account common.Address) (*MerkleProof, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(r.Amount), 10)
	if !ok {
		return nil, fmt.Errorf("invalid proof amount %q", r.Amount)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("negative proof amount %q", r.Amount)
	}

	proof := make([][32]byte, len(r.Proof))
	for i, h := range r.Proof {
		b, err := hexutil.Decode(h)
		if err != nil {
			return nil, fmt.Errorf("invalid proof hash at %d: %w", i, err)
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("proof hash at %d has %d bytes, expected 32", i, len(b))
		}
		copy(proof[i][:], b)
	}

	return &MerkleProof{
		Index:   r.Index,
		Account: account,
		Amount:  amount,
		Proof:   proof,
	}, nil
}

// ClaimStatus is the local, advisory lifecycle of a claim attempt.
type ClaimStatus string

const (
	ClaimStatus_NotClaimed ClaimStatus = "not_claimed"
	ClaimStatus_Submitting ClaimStatus = "submitting"
	ClaimStatus_Submitted  ClaimStatus = "submitted"
	ClaimStatus_Confirmed  ClaimStatus = "confirmed"
	ClaimStatus_Failed     ClaimStatus = "failed"
)

// InFlight reports whether a submission is outstanding.
func (s ClaimStatus) InFlight() bool {
	return s == ClaimStatus_Submitting || s == ClaimStatus_Submitted
}

func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatus_Confirmed || s == ClaimStatus_Failed
}

type ClaimState struct {
	Account common.Address `json:"account"`
	Status  ClaimStatus    `json:"status"`
	TxHash  common.Hash    `json:"txHash,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}

// TxStatus is the tracker's view of a submitted transaction.
type TxStatus string

const (
	TxStatus_Pending   TxStatus = "pending"
	TxStatus_Confirmed TxStatus = "confirmed"
	TxStatus_Failed    TxStatus = "failed"
)

// TransactionRecord is what the tracker stores per submitted transaction.
type TransactionRecord struct {
	Hash        common.Hash    `json:"hash"`
	From        common.Address `json:"from"`
	Summary     string         `json:"summary"`
	ClaimKey    string         `json:"claimKey,omitempty"`
	Status      TxStatus       `json:"status"`
	AddedAt     int64          `json:"addedAt"`
	ConfirmedAt int64          `json:"confirmedAt,omitempty"`
	BlockNumber uint64         `json:"blockNumber,omitempty"`
}

func (t *TransactionRecord) IsPending() bool {
	return t.Status == TxStatus_Pending
}

// SerializeArgs renders call arguments for diagnostics.
func SerializeArgs(args ...interface{}) string {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}
