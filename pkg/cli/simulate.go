package cli

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/code-payments/sutils/pkg/ledger"
	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/runtime"
	"github.com/code-payments/sutils/pkg/solana"
)

func newSimulateCommand(opts *RootOptions) *cobra.Command {
	var deposit, withdraw uint64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a ledger deposit and withdraw against an in-memory bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.StandardLogger().WithField("type", "cli/simulate")

			authority, owner, err := generateKeys()
			if err != nil {
				return err
			}

			state, _, err := ledger.GetStateAddress(&ledger.GetStateAddressArgs{Authority: authority})
			if err != nil {
				return err
			}
			balance, _, err := ledger.GetBalanceAddress(&ledger.GetBalanceAddressArgs{State: state, Owner: owner})
			if err != nil {
				return err
			}

			bank := runtime.NewBank()
			for _, allocation := range []struct {
				key   ed25519.PublicKey
				owner ed25519.PublicKey
				size  int
			}{
				{authority, nil, 0},
				{owner, nil, 0},
				{state, ledger.PROGRAM_ID, ledger.StateAccountSize},
				{balance, ledger.PROGRAM_ID, ledger.BalanceAccountSize},
			} {
				if err := bank.Allocate(allocation.key, allocation.owner, allocation.size); err != nil {
					return err
				}
			}

			executor := runtime.NewExecutor(bank, opts.config.LockStripes)
			if err := executor.Register(ledger.PROGRAM_ID, ledger.ProcessInstruction); err != nil {
				return err
			}

			transfer := &ledger.TransferInstructionAccounts{
				Owner:   owner,
				State:   state,
				Balance: balance,
			}

			steps := [][]solana.Instruction{
				{
					ledger.NewInitInstruction(
						&ledger.InitInstructionAccounts{Authority: authority, State: state},
						&ledger.InitInstructionArgs{},
					),
					ledger.NewOpenBalanceInstruction(
						&ledger.OpenBalanceInstructionAccounts{Owner: owner, State: state, Balance: balance},
					),
				},
				{
					ledger.NewDepositInstruction(transfer, &ledger.DepositInstructionArgs{Amount: deposit}),
				},
				{
					ledger.NewWithdrawInstruction(transfer, &ledger.WithdrawInstructionArgs{Amount: withdraw}),
				},
			}

			var simulationErr error
			for i, step := range steps {
				if err := executor.Execute(cmd.Context(), step...); err != nil {
					log.WithError(err).WithField("step", i).Warn("simulation step failed")
					simulationErr = errors.Wrapf(err, "step %d failed", i)
					break
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "authority: %s\nowner: %s\n", base58.Encode(authority), base58.Encode(owner))
			for _, address := range []ed25519.PublicKey{state, balance} {
				account, err := bank.Get(address)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %s\n", base58.Encode(address), describeAccount(account.Data))
			}

			return simulationErr
		},
	}

	cmd.Flags().Uint64Var(&deposit, "deposit", 100, "amount to deposit")
	cmd.Flags().Uint64Var(&withdraw, "withdraw", 40, "amount to withdraw")

	return cmd
}

func describeAccount(data []byte) string {
	if len(data) == 0 || data[0] == 0 {
		return "uninitialized"
	}

	switch data[0] {
	case ledger.StateAccountDiscriminator:
		if state, err := program.TryFromBytes[ledger.StateAccount](data); err == nil {
			return state.String()
		}
	case ledger.BalanceAccountDiscriminator:
		if balance, err := program.TryFromBytes[ledger.BalanceAccount](data); err == nil {
			return balance.String()
		}
	}
	return "unknown"
}

func generateKeys() (authority, owner ed25519.PublicKey, err error) {
	authority, _, err = ed25519.GenerateKey(nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate authority")
	}
	owner, _, err = ed25519.GenerateKey(nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate owner")
	}
	return authority, owner, nil
}
