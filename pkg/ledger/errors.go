package ledger

import (
	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
)

var (
	// The signer doesn't own the balance it's moving funds for
	ErrBalanceOwnerMismatch = program.NewError(solana.InstructionErrorInvalidArgument, "balance owner mismatch")

	// The balance was opened under a different ledger state
	ErrBalanceStateMismatch = program.NewError(solana.InstructionErrorInvalidArgument, "balance state mismatch")

	ErrUninitializedAccount = program.NewError(solana.InstructionErrorUninitializedAccount, "account is not initialized")
)
