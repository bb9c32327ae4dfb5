package ledger

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"

	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
)

// Hello logs a message on behalf of a signer.
type Hello struct {
	Msg []byte
}

func (*Hello) Discriminator() uint8 {
	return HelloInstructionDiscriminator
}

func (*Hello) isLedgerInstruction() {}

func (ix *Hello) Pack() []byte {
	return program.PackVariant(ix.Discriminator(), ix.Msg)
}

func decodeHello(payload []byte) (Instruction, error) {
	msg := make([]byte, len(payload))
	copy(msg, payload)
	return &Hello{Msg: msg}, nil
}

type HelloInstructionArgs struct {
	Msg []byte
}

type HelloInstructionAccounts struct {
	Payer ed25519.PublicKey
}

func NewHelloInstruction(
	accounts *HelloInstructionAccounts,
	args *HelloInstructionArgs,
) solana.Instruction {
	ix := &Hello{Msg: args.Msg}

	return solana.NewInstruction(
		PROGRAM_ID,
		ix.Pack(),
		solana.NewReadonlyAccountMeta(accounts.Payer, true),
	)
}

type helloProcessor struct {
	payer *program.AccountInfo
}

func newHelloProcessor(accounts []*program.AccountInfo) (program.InstructionProcessor[*Hello, program.None], error) {
	if err := program.ExpectAccounts(accounts, 1); err != nil {
		return nil, err
	}

	return &helloProcessor{
		payer: accounts[0],
	}, nil
}

func (p *helloProcessor) LogIx() {
	program.Log("Instruction: Hello")
}

func (p *helloProcessor) Validations(ix *Hello) (*program.None, error) {
	if err := program.RequireSigner(p.payer); err != nil {
		return nil, err
	}
	return &program.None{}, nil
}

func (p *helloProcessor) Process(ix *Hello, _ *program.None) error {
	program.Log("%s says: %s", base58.Encode(p.payer.Key), string(ix.Msg))
	return nil
}
