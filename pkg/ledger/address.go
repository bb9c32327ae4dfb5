package ledger

import (
	"crypto/ed25519"

	"github.com/code-payments/sutils/pkg/program"
)

var (
	statePrefix   = []byte("ledger_state")
	balancePrefix = []byte("ledger_balance")
)

type GetStateAddressArgs struct {
	Authority ed25519.PublicKey
}

// GetBalanceAddressArgs locates the balance of Owner under the ledger state at
// State. An owner has a separate balance per state.
type GetBalanceAddressArgs struct {
	State ed25519.PublicKey
	Owner ed25519.PublicKey
}

func GetStateAddress(args *GetStateAddressArgs) (ed25519.PublicKey, uint8, error) {
	return program.DerivePda(
		Deriver,
		PROGRAM_ID,
		statePrefix,
		args.Authority,
	)
}

func GetBalanceAddress(args *GetBalanceAddressArgs) (ed25519.PublicKey, uint8, error) {
	return program.DerivePda(
		Deriver,
		PROGRAM_ID,
		balancePrefix,
		args.State,
		args.Owner,
	)
}
