package providerError

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonError struct {
	code    int
	message string
	data    interface{}
}

func (e *jsonError) Error() string          { return e.message }
func (e *jsonError) ErrorCode() int         { return e.code }
func (e *jsonError) ErrorData() interface{} { return e.data }

// Error(string) revert payload for "Already claimed"
const alreadyClaimedRevert = "0x08c379a0" +
	"0000000000000000000000000000000000000000000000000000000000000020" +
	"000000000000000000000000000000000000000000000000000000000000000f" +
	"416c726561647920636c61696d65640000000000000000000000000000000000"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    Kind
		wantCode    int
		wantMessage string
	}{
		{
			name:        "user rejection",
			err:         &jsonError{code: 4001, message: "User denied transaction signature"},
			wantKind:    Kind_UserRejected,
			wantCode:    4001,
			wantMessage: "User denied transaction signature",
		},
		{
			name:        "data message wins over rpc message",
			err:         &jsonError{code: -32000, message: "outer", data: map[string]interface{}{"message": "insufficient funds for gas"}},
			wantKind:    Kind_RPC,
			wantCode:    -32000,
			wantMessage: "insufficient funds for gas",
		},
		{
			name:        "revert with reason data",
			err:         &jsonError{code: 3, message: "execution reverted", data: alreadyClaimedRevert},
			wantKind:    Kind_Revert,
			wantCode:    3,
			wantMessage: "execution reverted: Already claimed",
		},
		{
			name:        "revert detected from text",
			err:         fmt.Errorf("estimate gas: %w", errors.New("execution reverted")),
			wantKind:    Kind_Revert,
			wantMessage: "estimate gas: execution reverted",
		},
		{
			name:        "rpc error without data",
			err:         &jsonError{code: -32603, message: "internal error"},
			wantKind:    Kind_RPC,
			wantCode:    -32603,
			wantMessage: "internal error",
		},
		{
			name:        "network error",
			err:         &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			wantKind:    Kind_Network,
			wantMessage: "dial tcp: connection refused",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantKind:    Kind_Network,
			wantMessage: "context deadline exceeded",
		},
		{
			name:        "empty message falls back",
			err:         errors.New(""),
			wantKind:    Kind_Unknown,
			wantMessage: UnknownErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := Normalize(tt.err)
			require.NotNil(t, pe)
			assert.Equal(t, tt.wantKind, pe.Kind)
			assert.Equal(t, tt.wantCode, pe.Code)
			assert.Equal(t, tt.wantMessage, pe.Message)
			assert.Equal(t, tt.err, pe.Raw)
		})
	}
}

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalize_Idempotent(t *testing.T) {
	pe := Normalize(&jsonError{code: -32000, message: "nonce too low"})
	wrapped := fmt.Errorf("send: %w", pe)
	assert.Same(t, pe, Normalize(wrapped))
}

func TestIsUserRejected(t *testing.T) {
	assert.True(t, IsUserRejected(ErrUserRejected))
	assert.True(t, IsUserRejected(fmt.Errorf("sign: %w", ErrUserRejected)))
	assert.True(t, IsUserRejected(&jsonError{code: 4001, message: "denied"}))
	assert.False(t, IsUserRejected(errors.New("boom")))
	assert.False(t, IsUserRejected(nil))

	pe := Normalize(&jsonError{code: 4001, message: "denied"})
	assert.True(t, errors.Is(pe, ErrUserRejected))
}

func TestProviderError_Action(t *testing.T) {
	raw := fmt.Errorf("failed to estimate gas: %w", &jsonError{
		code:    3,
		message: "execution reverted",
		data:    map[string]interface{}{"message": "Already claimed"},
	})
	pe := Normalize(raw)
	require.NotNil(t, pe)
	assert.Equal(t, "failed to estimate gas: execution reverted execution reverted Already claimed", pe.Action())

	plain := Normalize(errors.New("boom"))
	assert.Equal(t, "boom", plain.Action())

	assert.Equal(t, ErrUserRejected.Message, ErrUserRejected.Action())
}
