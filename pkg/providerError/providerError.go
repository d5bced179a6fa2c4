// Package providerError converts every error surfaced by a wallet provider,
// signer or RPC endpoint into a single tagged value so callers can branch on
// the kind of failure instead of probing error shapes.
package providerError

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/rpc"
)

// Kind classifies a provider failure.
type Kind string

const (
	Kind_UserRejected Kind = "user_rejected"
	Kind_Revert       Kind = "revert"
	Kind_RPC          Kind = "rpc"
	Kind_Network      Kind = "network"
	Kind_Unknown      Kind = "unknown"
)

const (
	// Code_UserRejected is the EIP-1193 "user rejected request" code.
	Code_UserRejected = 4001

	// Code_ExecutionReverted is what geth-compatible nodes return for reverts.
	Code_ExecutionReverted = 3

	UnknownErrorMessage = "unknown error"
)

// ErrUserRejected is returned by signers when the account holder declines to sign.
var ErrUserRejected = &ProviderError{Kind: Kind_UserRejected, Code: Code_UserRejected, Message: "user rejected the request"}

type ProviderError struct {
	Kind    Kind
	Code    int
	Message string
	Raw     error
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Raw
}

// Is matches any ProviderError of the same kind, so errors.Is(err, ErrUserRejected) works
// for rejections produced by any signer.
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
}

// Normalize converts err into a *ProviderError. A nil error yields nil; an error
// that already wraps a ProviderError is returned as that ProviderError.
//
// The message is chosen in priority order: provider data message, RPC error
// message, generic error text, then UnknownErrorMessage.
func Normalize(err error) *ProviderError {
	if err == nil {
		return nil
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	out := &ProviderError{Kind: Kind_Unknown, Raw: err}

	var rpcErr rpc.Error
	hasRPC := errors.As(err, &rpcErr)
	if hasRPC {
		out.Code = rpcErr.ErrorCode()
	}

	dataMessage, isRevertData := dataMessageOf(err)

	switch {
	case out.Code == Code_UserRejected:
		out.Kind = Kind_UserRejected
	case out.Code == Code_ExecutionReverted || isRevertData || strings.Contains(strings.ToLower(err.Error()), "execution reverted"):
		out.Kind = Kind_Revert
	case hasRPC:
		out.Kind = Kind_RPC
	case isNetworkError(err):
		out.Kind = Kind_Network
	}

	switch {
	case dataMessage != "":
		out.Message = dataMessage
	case hasRPC && rpcErr.Error() != "":
		out.Message = rpcErr.Error()
	case err.Error() != "":
		out.Message = err.Error()
	default:
		out.Message = UnknownErrorMessage
	}

	return out
}

// IsUserRejected reports whether err is, or normalizes to, a user refusal.
func IsUserRejected(err error) bool {
	pe := Normalize(err)
	return pe != nil && pe.Kind == Kind_UserRejected
}

// dataMessageOf extracts a human readable message from rpc.DataError payloads.
// Nodes return either an object carrying "message" or hex-encoded revert data.
func dataMessageOf(err error) (string, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return "", false
	}

	switch data := dataErr.ErrorData().(type) {
	case map[string]interface{}:
		if msg, ok := data["message"].(string); ok {
			return msg, false
		}
	case string:
		if !strings.HasPrefix(data, "0x") {
			return data, false
		}
		raw, decodeErr := hex.DecodeString(strings.TrimPrefix(data, "0x"))
		if decodeErr != nil || len(raw) == 0 {
			return "", false
		}
		if reason, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
			return "execution reverted: " + reason, true
		}
		return "", true
	}
	return "", false
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// Action joins every distinct message layer of the underlying error: the full
// error text, the RPC message and the data message, in that order.
func (e *ProviderError) Action() string {
	if e.Raw == nil {
		return e.Message
	}
	layers := []string{e.Raw.Error()}

	var rpcErr rpc.Error
	if errors.As(e.Raw, &rpcErr) {
		layers = append(layers, rpcErr.Error())
	}
	if msg, _ := dataMessageOf(e.Raw); msg != "" {
		layers = append(layers, msg)
	}

	seen := make(map[string]struct{}, len(layers))
	out := make([]string, 0, len(layers))
	for _, l := range layers {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return strings.Join(out, " ")
}
