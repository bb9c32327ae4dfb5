package ledger

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/program"
)

// ProcessInstruction is the ledger entrypoint. It decodes data and runs the
// matching processor against accounts.
func ProcessInstruction(programID ed25519.PublicKey, accounts []*program.AccountInfo, data []byte) error {
	if !bytes.Equal(programID, PROGRAM_ID) {
		return errors.Wrapf(program.ErrIncorrectProgramID, "got %s", base58.Encode(programID))
	}

	ix, err := Unpack(data)
	if err != nil {
		return err
	}

	switch typed := ix.(type) {
	case *Hello:
		return program.Run(newHelloProcessor, accounts, typed)
	case *Init:
		return program.Run(newInitProcessor, accounts, typed)
	case *OpenBalance:
		return program.Run(newOpenBalanceProcessor, accounts, typed)
	case *Deposit:
		return program.Run(newDepositProcessor, accounts, typed)
	case *Withdraw:
		return program.Run(newWithdrawProcessor, accounts, typed)
	}

	return errors.Wrapf(program.ErrUnknownDiscriminator, "unhandled instruction %s", Instructions.Name(ix))
}
