package ledger

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
)

// OpenBalance creates an empty balance for the signing owner under an
// initialized ledger state.
type OpenBalance struct{}

func (*OpenBalance) Discriminator() uint8 {
	return OpenBalanceInstructionDiscriminator
}

func (*OpenBalance) isLedgerInstruction() {}

func (ix *OpenBalance) Pack() []byte {
	return program.PackVariant(ix.Discriminator(), nil)
}

func decodeOpenBalance(payload []byte) (Instruction, error) {
	if err := program.ExpectPayloadSize(payload, 0); err != nil {
		return nil, err
	}
	return &OpenBalance{}, nil
}

type OpenBalanceInstructionAccounts struct {
	Owner   ed25519.PublicKey
	State   ed25519.PublicKey
	Balance ed25519.PublicKey
}

func NewOpenBalanceInstruction(accounts *OpenBalanceInstructionAccounts) solana.Instruction {
	ix := &OpenBalance{}

	return solana.NewInstruction(
		PROGRAM_ID,
		ix.Pack(),
		solana.NewReadonlyAccountMeta(accounts.Owner, true),
		solana.NewReadonlyAccountMeta(accounts.State, false),
		solana.NewAccountMeta(accounts.Balance, false),
	)
}

type openBalanceProcessor struct {
	owner   *program.AccountInfo
	state   *program.AccountInfo
	balance *program.AccountInfo
}

func newOpenBalanceProcessor(accounts []*program.AccountInfo) (program.InstructionProcessor[*OpenBalance, program.None], error) {
	if err := program.ExpectAccounts(accounts, 3); err != nil {
		return nil, err
	}

	return &openBalanceProcessor{
		owner:   accounts[0],
		state:   accounts[1],
		balance: accounts[2],
	}, nil
}

func (p *openBalanceProcessor) LogIx() {
	program.Log("Instruction: OpenBalance")
}

func (p *openBalanceProcessor) Validations(ix *OpenBalance) (*program.None, error) {
	if err := program.RequireSigner(p.owner); err != nil {
		return nil, err
	}

	// Balances can only be opened under a live state
	if err := requireInitialized(p.state); err != nil {
		return nil, errors.Wrap(err, "invalid state account")
	}
	if _, err := program.AccountRead[StateAccount](p.state); err != nil {
		return nil, errors.Wrap(err, "invalid state account")
	}

	if err := requireUninitialized(p.balance, BalanceAccountSize, false); err != nil {
		return nil, err
	}

	address, _, err := GetBalanceAddress(&GetBalanceAddressArgs{
		State: p.state.Key,
		Owner: p.owner.Key,
	})
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(address, p.balance.Key) {
		return nil, errors.Wrapf(
			program.ErrAddressMismatch,
			"balance %s, expected %s",
			base58.Encode(p.balance.Key),
			base58.Encode(address),
		)
	}

	return &program.None{}, nil
}

func (p *openBalanceProcessor) Process(ix *OpenBalance, _ *program.None) error {
	balance := &BalanceAccount{
		State:  p.state.Key,
		Owner:  p.owner.Key,
		Amount: 0,
	}
	if err := program.AccountWrite(&balance, p.balance); err != nil {
		return err
	}

	program.Log("opened balance %s", base58.Encode(p.balance.Key))
	return nil
}
