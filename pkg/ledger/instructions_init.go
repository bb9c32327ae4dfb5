package ledger

import (
	"bytes"
	"crypto/ed25519"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
)

// Init creates the ledger state of a signing authority. Force overwrites an
// existing state, resetting its deposit total.
type Init struct {
	Force bool
}

func (*Init) Discriminator() uint8 {
	return InitInstructionDiscriminator
}

func (*Init) isLedgerInstruction() {}

func (ix *Init) Pack() []byte {
	encoder, buf := newPayloadEncoder(ix.Discriminator())
	_ = encoder.WriteBool(ix.Force)
	return buf.Bytes()
}

func decodeInit(payload []byte) (Instruction, error) {
	if err := program.ExpectPayloadSize(payload, 1); err != nil {
		return nil, err
	}

	// ReadBool accepts any non-zero byte, only 0 and 1 are valid here
	value, err := bin.NewBinDecoder(payload).ReadByte()
	if err != nil {
		return nil, errors.Wrap(program.ErrInvalidInstructionData, err.Error())
	}

	switch value {
	case 0:
		return &Init{Force: false}, nil
	case 1:
		return &Init{Force: true}, nil
	}
	return nil, errors.Wrapf(program.ErrInvalidInstructionData, "invalid bool value %d", value)
}

type InitInstructionArgs struct {
	Force bool
}

type InitInstructionAccounts struct {
	Authority ed25519.PublicKey
	State     ed25519.PublicKey
}

func NewInitInstruction(
	accounts *InitInstructionAccounts,
	args *InitInstructionArgs,
) solana.Instruction {
	ix := &Init{Force: args.Force}

	return solana.NewInstruction(
		PROGRAM_ID,
		ix.Pack(),
		solana.NewReadonlyAccountMeta(accounts.Authority, true),
		solana.NewAccountMeta(accounts.State, false),
	)
}

type initProcessor struct {
	authority *program.AccountInfo
	state     *program.AccountInfo
}

type initValidationResult struct {
	bump uint8
}

func newInitProcessor(accounts []*program.AccountInfo) (program.InstructionProcessor[*Init, initValidationResult], error) {
	if err := program.ExpectAccounts(accounts, 2); err != nil {
		return nil, err
	}

	return &initProcessor{
		authority: accounts[0],
		state:     accounts[1],
	}, nil
}

func (p *initProcessor) LogIx() {
	program.Log("Instruction: Init")
}

func (p *initProcessor) Validations(ix *Init) (*initValidationResult, error) {
	if err := program.RequireSigner(p.authority); err != nil {
		return nil, err
	}

	if err := requireUninitialized(p.state, StateAccountSize, ix.Force); err != nil {
		return nil, err
	}

	address, bump, err := GetStateAddress(&GetStateAddressArgs{
		Authority: p.authority.Key,
	})
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(address, p.state.Key) {
		return nil, errors.Wrapf(
			program.ErrAddressMismatch,
			"state %s, expected %s",
			base58.Encode(p.state.Key),
			base58.Encode(address),
		)
	}

	return &initValidationResult{bump: bump}, nil
}

func (p *initProcessor) Process(ix *Init, result *initValidationResult) error {
	state := &StateAccount{
		Authority:     p.authority.Key,
		TotalDeposits: 0,
		Bump:          result.bump,
	}
	if err := program.AccountWrite(&state, p.state); err != nil {
		return err
	}

	program.Log("initialized state %s", base58.Encode(p.state.Key))
	return nil
}
