package transactionSigner

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/providerError"
	"github.com/ethereum/go-ethereum/core/types"
)

// PromptFunc asks the operator to approve tx. Returning false rejects it.
type PromptFunc func(ctx context.Context, tx *types.Transaction) (bool, error)

// ConfirmingSigner asks for approval before every signature, the way a wallet
// extension would. A refusal surfaces as providerError.ErrUserRejected.
type ConfirmingSigner struct {
	ITransactionSigner
	prompt PromptFunc
}

var _ ITransactionSigner = (*ConfirmingSigner)(nil)

func NewConfirmingSigner(inner ITransactionSigner, prompt PromptFunc) *ConfirmingSigner {
	return &ConfirmingSigner{ITransactionSigner: inner, prompt: prompt}
}

func (c *ConfirmingSigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Transaction, error) {
	ok, err := c.prompt(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	if !ok {
		return nil, providerError.ErrUserRejected
	}
	return c.ITransactionSigner.SignAndSendTransaction(ctx, tx)
}
