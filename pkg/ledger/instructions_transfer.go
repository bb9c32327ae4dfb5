package ledger

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
)

// Deposit credits Amount to the signer's balance and to the state total.
type Deposit struct {
	Amount uint64
}

func (*Deposit) Discriminator() uint8 {
	return DepositInstructionDiscriminator
}

func (*Deposit) isLedgerInstruction() {}

func (ix *Deposit) Pack() []byte {
	return packAmount(ix.Discriminator(), ix.Amount)
}

func decodeDeposit(payload []byte) (Instruction, error) {
	amount, err := decodeAmount(payload)
	if err != nil {
		return nil, err
	}
	return &Deposit{Amount: amount}, nil
}

// Withdraw debits Amount from the signer's balance and from the state total.
type Withdraw struct {
	Amount uint64
}

func (*Withdraw) Discriminator() uint8 {
	return WithdrawInstructionDiscriminator
}

func (*Withdraw) isLedgerInstruction() {}

func (ix *Withdraw) Pack() []byte {
	return packAmount(ix.Discriminator(), ix.Amount)
}

func decodeWithdraw(payload []byte) (Instruction, error) {
	amount, err := decodeAmount(payload)
	if err != nil {
		return nil, err
	}
	return &Withdraw{Amount: amount}, nil
}

type DepositInstructionArgs struct {
	Amount uint64
}

type WithdrawInstructionArgs struct {
	Amount uint64
}

type TransferInstructionAccounts struct {
	Owner   ed25519.PublicKey
	State   ed25519.PublicKey
	Balance ed25519.PublicKey
}

func NewDepositInstruction(
	accounts *TransferInstructionAccounts,
	args *DepositInstructionArgs,
) solana.Instruction {
	ix := &Deposit{Amount: args.Amount}
	return newTransferInstruction(accounts, ix.Pack())
}

func NewWithdrawInstruction(
	accounts *TransferInstructionAccounts,
	args *WithdrawInstructionArgs,
) solana.Instruction {
	ix := &Withdraw{Amount: args.Amount}
	return newTransferInstruction(accounts, ix.Pack())
}

func newTransferInstruction(accounts *TransferInstructionAccounts, data []byte) solana.Instruction {
	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		solana.NewReadonlyAccountMeta(accounts.Owner, true),
		solana.NewAccountMeta(accounts.State, false),
		solana.NewAccountMeta(accounts.Balance, false),
	)
}

// transferProcessor backs both Deposit and Withdraw, which share accounts and
// validations and differ only in the direction of the update.
type transferProcessor[Ix interface{ *Deposit | *Withdraw }] struct {
	name string

	owner   *program.AccountInfo
	state   *program.AccountInfo
	balance *program.AccountInfo
}

type transferValidationResult struct {
	state   *StateAccount
	balance *BalanceAccount
}

func newDepositProcessor(accounts []*program.AccountInfo) (program.InstructionProcessor[*Deposit, transferValidationResult], error) {
	p, err := newTransferProcessor[*Deposit]("Deposit", accounts)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newWithdrawProcessor(accounts []*program.AccountInfo) (program.InstructionProcessor[*Withdraw, transferValidationResult], error) {
	p, err := newTransferProcessor[*Withdraw]("Withdraw", accounts)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newTransferProcessor[Ix interface{ *Deposit | *Withdraw }](name string, accounts []*program.AccountInfo) (*transferProcessor[Ix], error) {
	if err := program.ExpectAccounts(accounts, 3); err != nil {
		return nil, err
	}

	return &transferProcessor[Ix]{
		name:    name,
		owner:   accounts[0],
		state:   accounts[1],
		balance: accounts[2],
	}, nil
}

func (p *transferProcessor[Ix]) LogIx() {
	program.Log("Instruction: %s", p.name)
}

func (p *transferProcessor[Ix]) Validations(ix Ix) (*transferValidationResult, error) {
	if err := program.RequireSigner(p.owner); err != nil {
		return nil, err
	}

	// Both records are written in Process, so both must accept the write
	// before either is touched
	if err := program.RequireWritable(p.state); err != nil {
		return nil, err
	}
	if err := program.RequireWritable(p.balance); err != nil {
		return nil, err
	}

	if err := requireInitialized(p.state); err != nil {
		return nil, errors.Wrap(err, "invalid state account")
	}
	state, err := program.AccountRead[StateAccount](p.state)
	if err != nil {
		return nil, errors.Wrap(err, "invalid state account")
	}

	if err := requireInitialized(p.balance); err != nil {
		return nil, errors.Wrap(err, "invalid balance account")
	}
	balance, err := program.AccountRead[BalanceAccount](p.balance)
	if err != nil {
		return nil, errors.Wrap(err, "invalid balance account")
	}

	if !bytes.Equal(balance.State, p.state.Key) {
		return nil, errors.Wrapf(
			ErrBalanceStateMismatch,
			"balance opened under %s, state is %s",
			base58.Encode(balance.State),
			base58.Encode(p.state.Key),
		)
	}

	if !bytes.Equal(balance.Owner, p.owner.Key) {
		return nil, errors.Wrapf(
			ErrBalanceOwnerMismatch,
			"balance owned by %s, signer is %s",
			base58.Encode(balance.Owner),
			base58.Encode(p.owner.Key),
		)
	}

	return &transferValidationResult{
		state:   state,
		balance: balance,
	}, nil
}

func (p *transferProcessor[Ix]) Process(ix Ix, result *transferValidationResult) error {
	state := result.state
	balance := result.balance

	switch typed := any(ix).(type) {
	case *Deposit:
		if state.TotalDeposits > math.MaxUint64-typed.Amount || balance.Amount > math.MaxUint64-typed.Amount {
			return errors.Wrapf(program.ErrArithmeticOverflow, "deposit of %d", typed.Amount)
		}

		state.TotalDeposits += typed.Amount
		balance.Amount += typed.Amount
	case *Withdraw:
		if typed.Amount > balance.Amount {
			return errors.Wrapf(program.ErrInsufficientFunds, "balance %d, withdraw %d", balance.Amount, typed.Amount)
		}
		if typed.Amount > state.TotalDeposits {
			return errors.Wrapf(program.ErrArithmeticOverflow, "total deposits %d, withdraw %d", state.TotalDeposits, typed.Amount)
		}

		state.TotalDeposits -= typed.Amount
		balance.Amount -= typed.Amount
	}

	if err := program.AccountWrite(&state, p.state); err != nil {
		return err
	}
	if err := program.AccountWrite(&balance, p.balance); err != nil {
		return err
	}

	return nil
}
