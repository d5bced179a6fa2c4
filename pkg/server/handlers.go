package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/airdrop"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/amount"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/providerError"
	"github.com/ethereum/go-ethereum/common"
)

const displayPlaces = 6

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Sugar().Warnw("Failed to encode response", "error", err)
	}
}

func (s *Server) accountParam(w http.ResponseWriter, query url.Values) (common.Address, bool) {
	q := accountQuery{Account: query.Get("account")}
	if err := s.validate.Struct(q); err != nil {
		http.Error(w, fmt.Sprintf("Invalid account: %v", err), http.StatusBadRequest)
		return common.Address{}, false
	}
	return common.HexToAddress(q.Account), true
}

// handleEligibility handles GET /eligibility. A failed lookup is reported as
// unknown rather than as an error.
func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	account, ok := s.accountParam(w, r.URL.Query())
	if !ok {
		return
	}

	s.mu.Lock()
	res, err := s.resolve(r.Context(), account)
	s.mu.Unlock()

	resp := &EligibilityResponse{Account: account.Hex(), Symbol: s.token.Symbol, Amount: "0", Display: "0"}
	if err != nil || res == nil || res.Result == nil {
		if err != nil {
			s.logger.Sugar().Debugw("Eligibility unknown", "account", account.Hex(), "error", err)
		}
		s.writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Known = true
	resp.IsWhitelisted = res.Result.IsWhitelisted
	resp.Amount = res.Result.Amount.String()
	resp.Display = amount.Format(res.Result.Amount, int32(s.token.Decimals), displayPlaces)
	if res.Proof != nil {
		index := res.Proof.Index
		resp.Index = &index
		resp.Proof = res.Proof.ProofHexes()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleClaim handles POST /claim
func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	account := common.HexToAddress(req.Account)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.resolve(r.Context(), account); err != nil {
		s.logger.Sugar().Debugw("Eligibility lookup failed before claim", "account", account.Hex(), "error", err)
	}

	state, err := s.claims.Claim(r.Context())
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, claimResponse(state))
	case errors.Is(err, airdrop.ErrNoAccount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, airdrop.ErrNotEligible):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, airdrop.ErrAlreadyClaimed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, airdrop.ErrClaimInProgress), errors.Is(err, providerError.ErrUserRejected):
		if state == nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		s.writeJSON(w, http.StatusConflict, claimResponse(state))
	default:
		if state == nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusBadGateway, claimResponse(state))
	}
}

// handleClaimStatus handles GET /claim/status
func (s *Server) handleClaimStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	account, ok := s.accountParam(w, r.URL.Query())
	if !ok {
		return
	}

	state, err := s.claims.Status(r.Context(), account)
	if err != nil {
		s.logger.Sugar().Warnw("Claim status degraded to local state", "account", account.Hex(), "error", err)
	}
	if state == nil {
		http.Error(w, "Claim status unavailable", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, http.StatusOK, claimResponse(state))
}

// handleDaos handles GET /daos
func (s *Server) handleDaos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	q := daoListQuery{Keyword: query.Get("keyword"), Category: query.Get("category")}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "page must be a number", http.StatusBadRequest)
			return
		}
		q.Page = page
	}
	if err := s.validate.Struct(q); err != nil {
		http.Error(w, fmt.Sprintf("Invalid query: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.daos.Apply(r.Context(), q.Keyword, q.Category, q.Page); err != nil {
		http.Error(w, "Failed to load DAO list", http.StatusBadGateway)
		return
	}
	s.writeJSON(w, http.StatusOK, s.daos.View())
}

// handleTransactions handles GET /transactions
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := s.txs.List()
	if err != nil {
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}
