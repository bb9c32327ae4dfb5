package ledger

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/program"
)

const (
	HelloInstructionDiscriminator uint8 = iota
	InitInstructionDiscriminator
	OpenBalanceInstructionDiscriminator
	DepositInstructionDiscriminator
	WithdrawInstructionDiscriminator
)

// Instruction is the closed set of ledger instruction variants.
type Instruction interface {
	program.InstructionPacker

	isLedgerInstruction()
}

// Instructions decodes raw ledger instruction data.
var Instructions = program.NewInstructionSet[Instruction]("LedgerInstruction")

func init() {
	Instructions.MustRegister(HelloInstructionDiscriminator, "Hello", decodeHello)
	Instructions.MustRegister(InitInstructionDiscriminator, "Init", decodeInit)
	Instructions.MustRegister(OpenBalanceInstructionDiscriminator, "OpenBalance", decodeOpenBalance)
	Instructions.MustRegister(DepositInstructionDiscriminator, "Deposit", decodeDeposit)
	Instructions.MustRegister(WithdrawInstructionDiscriminator, "Withdraw", decodeWithdraw)
}

// Unpack decodes data into a ledger instruction.
func Unpack(data []byte) (Instruction, error) {
	return Instructions.Unpack(data)
}

// Writes into a bytes.Buffer never fail, so encoder errors are dropped
func newPayloadEncoder(discriminator uint8) (*bin.Encoder, *bytes.Buffer) {
	var buf bytes.Buffer
	encoder := bin.NewBinEncoder(&buf)
	_ = encoder.WriteByte(discriminator)
	return encoder, &buf
}

func packAmount(discriminator uint8, amount uint64) []byte {
	encoder, buf := newPayloadEncoder(discriminator)
	_ = encoder.WriteUint64(amount, bin.LE)
	return buf.Bytes()
}

func decodeAmount(payload []byte) (uint64, error) {
	if err := program.ExpectPayloadSize(payload, 8); err != nil {
		return 0, err
	}

	decoder := bin.NewBinDecoder(payload)
	amount, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return 0, errors.Wrap(program.ErrInvalidInstructionData, err.Error())
	}
	return amount, nil
}
