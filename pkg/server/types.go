package server

import (
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

type accountQuery struct {
	Account string `validate:"required,eth_addr"`
}

type ClaimRequest struct {
	Account string `json:"account" validate:"required,eth_addr"`
}

type daoListQuery struct {
	Keyword  string `validate:"max=64"`
	Category string `validate:"max=64"`
	Page     int    `validate:"gte=0"`
}

// EligibilityResponse reports Known=false when the lookup failed; the other
// fields are then zero.
type EligibilityResponse struct {
	Account       string   `json:"account"`
	Known         bool     `json:"known"`
	IsWhitelisted bool     `json:"isWhitelisted"`
	Amount        string   `json:"amount"`
	Display       string   `json:"display"`
	Symbol        string   `json:"symbol"`
	Index         *uint64  `json:"index,omitempty"`
	Proof         []string `json:"proof,omitempty"`
}

type ClaimResponse struct {
	Account string            `json:"account"`
	Status  types.ClaimStatus `json:"status"`
	TxHash  string            `json:"txHash,omitempty"`
	Reason  string            `json:"reason,omitempty"`
}

func claimResponse(state *types.ClaimState) *ClaimResponse {
	resp := &ClaimResponse{
		Account: state.Account.Hex(),
		Status:  state.Status,
		Reason:  state.Reason,
	}
	if state.TxHash != (common.Hash{}) {
		resp.TxHash = state.TxHash.Hex()
	}
	return resp
}
