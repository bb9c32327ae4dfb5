package ledger

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"

	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("LedgSxt5UQ2s5H6tqPVqb5r4U2Mmdt9XDo4Nfc6B2nw")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

// Deriver memoizes bump searches for ledger addresses. Balance records don't
// store their bump, so every guarded read of one searches again.
var Deriver = solana.NewCachedDeriver(solana.DefaultDeriver, 4096)

// Accounts claims the discriminators of every ledger account type.
var Accounts = program.NewDiscriminatorRegistry()

func init() {
	Accounts.MustRegisterAccount("State", &StateAccount{})
	Accounts.MustRegisterAccount("Balance", &BalanceAccount{})
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
