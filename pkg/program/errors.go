package program

import (
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/solana"
)

// Error is one of the closed set of failure conditions a program reports.
// Callers compare against the exported sentinels with errors.Is, or map any
// error chain to its runtime key with KeyOf.
type Error struct {
	key solana.InstructionErrorKey
	msg string
}

// NewError defines a program specific error reported under key.
func NewError(key solana.InstructionErrorKey, msg string) *Error {
	return &Error{key: key, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Key returns the runtime error key for this condition.
func (e *Error) Key() solana.InstructionErrorKey {
	return e.key
}

var (
	// Account codec
	ErrBufferTooSmall        = NewError(solana.InstructionErrorAccountDataTooSmall, "account buffer too small")
	ErrAccountDataTooShort   = NewError(solana.InstructionErrorInvalidAccountData, "account data too short")
	ErrDiscriminatorMismatch = NewError(solana.InstructionErrorInvalidAccountData, "account discriminator mismatch")

	// Account guard
	ErrInvalidOwner         = NewError(solana.InstructionErrorIncorrectProgramID, "invalid account owner")
	ErrAddressMismatch      = NewError(solana.InstructionErrorInvalidSeeds, "account address does not match derived address")
	ErrAccountBorrowFailed  = NewError(solana.InstructionErrorAccountBorrowFailed, "account data already borrowed")
	ErrReadonlyDataModified = NewError(solana.InstructionErrorReadonlyDataModified, "write to readonly account")

	// Account shape
	ErrNotEnoughAccountKeys     = NewError(solana.InstructionErrorNotEnoughAccountKeys, "not enough account keys")
	ErrAccountShapeMismatch     = NewError(solana.InstructionErrorInvalidArgument, "unexpected number of account keys")
	ErrMissingRequiredSignature = NewError(solana.InstructionErrorMissingRequiredSignature, "missing required signature")

	// Instruction codec
	ErrEmptyInstruction       = NewError(solana.InstructionErrorInvalidInstructionData, "empty instruction data")
	ErrUnknownDiscriminator   = NewError(solana.InstructionErrorInvalidInstructionData, "unknown instruction discriminator")
	ErrInvalidInstructionData = NewError(solana.InstructionErrorInvalidInstructionData, "invalid instruction data")

	// Registry
	ErrDuplicateDiscriminator = NewError(solana.InstructionErrorInvalidArgument, "duplicate discriminator")

	// Business logic
	ErrIncorrectProgramID        = NewError(solana.InstructionErrorIncorrectProgramID, "incorrect program id")
	ErrAccountAlreadyInitialized = NewError(solana.InstructionErrorAccountAlreadyInitialized, "account already initialized")
	ErrArithmeticOverflow        = NewError(solana.InstructionErrorArithmeticOverflow, "arithmetic overflow")
	ErrInsufficientFunds         = NewError(solana.InstructionErrorInsufficientFunds, "insufficient funds")
)

// KeyOf returns the runtime key of the first program Error found in err's
// chain, or GenericError when there is none.
func KeyOf(err error) solana.InstructionErrorKey {
	var programErr *Error
	if errors.As(err, &programErr) {
		return programErr.key
	}
	return solana.InstructionErrorGenericError
}
