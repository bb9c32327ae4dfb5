package ledger

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
	"github.com/code-payments/sutils/pkg/testutil"
)

type testEnv struct {
	authority ed25519.PublicKey
	owner     ed25519.PublicKey

	stateAddress   ed25519.PublicKey
	stateBump      uint8
	balanceAddress ed25519.PublicKey

	// Backing account data, shared across invocations
	stateData   []byte
	balanceData []byte
}

func setup(t *testing.T) *testEnv {
	env := &testEnv{
		authority:   testutil.GenerateSolanaKey(t),
		owner:       testutil.GenerateSolanaKey(t),
		stateData:   make([]byte, StateAccountSize),
		balanceData: make([]byte, BalanceAccountSize),
	}

	var err error
	env.stateAddress, env.stateBump, err = GetStateAddress(&GetStateAddressArgs{
		Authority: env.authority,
	})
	require.NoError(t, err)

	env.balanceAddress, _, err = GetBalanceAddress(&GetBalanceAddressArgs{
		State: env.stateAddress,
		Owner: env.owner,
	})
	require.NoError(t, err)

	return env
}

// accountsFor resolves the instruction's account metas against the env's
// backing data. Signers are the authority and owner keys, everything else is
// a ledger account.
func (e *testEnv) accountsFor(ix solana.Instruction) []*program.AccountInfo {
	accounts := make([]*program.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		var owner ed25519.PublicKey
		var data []byte

		switch {
		case meta.PublicKey.Equal(e.stateAddress):
			owner, data = PROGRAM_ID, e.stateData
		case meta.PublicKey.Equal(e.balanceAddress):
			owner, data = PROGRAM_ID, e.balanceData
		}

		accounts[i] = program.NewAccountInfo(meta.PublicKey, owner, data, meta.IsSigner, meta.IsWritable)
	}
	return accounts
}

func (e *testEnv) execute(ix solana.Instruction) error {
	return ProcessInstruction(ix.Program, e.accountsFor(ix), ix.Data)
}

func (e *testEnv) initState(t *testing.T) {
	require.NoError(t, e.execute(NewInitInstruction(
		&InitInstructionAccounts{Authority: e.authority, State: e.stateAddress},
		&InitInstructionArgs{},
	)))
}

func (e *testEnv) openBalance(t *testing.T) {
	require.NoError(t, e.execute(NewOpenBalanceInstruction(
		e.openBalanceAccounts(),
	)))
}

func (e *testEnv) openBalanceAccounts() *OpenBalanceInstructionAccounts {
	return &OpenBalanceInstructionAccounts{
		Owner:   e.owner,
		State:   e.stateAddress,
		Balance: e.balanceAddress,
	}
}

func (e *testEnv) transferAccounts() *TransferInstructionAccounts {
	return &TransferInstructionAccounts{
		Owner:   e.owner,
		State:   e.stateAddress,
		Balance: e.balanceAddress,
	}
}

func (e *testEnv) state(t *testing.T) *StateAccount {
	state, err := program.TryFromBytes[StateAccount](e.stateData)
	require.NoError(t, err)
	return state
}

func (e *testEnv) balance(t *testing.T) *BalanceAccount {
	balance, err := program.TryFromBytes[BalanceAccount](e.balanceData)
	require.NoError(t, err)
	return balance
}
