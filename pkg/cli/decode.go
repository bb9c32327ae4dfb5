package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/sutils/pkg/ledger"
	"github.com/code-payments/sutils/pkg/program"
)

func newDecodeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode ledger account data, picking the type from its discriminator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			if len(data) == 0 {
				return program.ErrAccountDataTooShort
			}

			name, ok := ledger.Accounts.AccountName(data[0])
			if !ok {
				return errors.Wrapf(program.ErrDiscriminatorMismatch, "no ledger account has discriminator %d", data[0])
			}

			var account fmt.Stringer
			switch name {
			case "State":
				account, err = program.TryFromBytes[ledger.StateAccount](data)
			case "Balance":
				account, err = program.TryFromBytes[ledger.BalanceAccount](data)
			default:
				return errors.Errorf("unsupported account type %s", name)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), account)
			return err
		},
	}
}

func newDecodeInstructionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode-ix <hex>",
		Short: "Decode ledger instruction data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := decodeHex(args[0])
			if err != nil {
				return err
			}

			ix, err := ledger.Unpack(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch typed := ix.(type) {
			case *ledger.Hello:
				_, err = fmt.Fprintf(out, "Hello{msg=%q}\n", typed.Msg)
			case *ledger.Init:
				_, err = fmt.Fprintf(out, "Init{force=%t}\n", typed.Force)
			case *ledger.Deposit:
				_, err = fmt.Fprintf(out, "Deposit{amount=%d}\n", typed.Amount)
			case *ledger.Withdraw:
				_, err = fmt.Fprintf(out, "Withdraw{amount=%d}\n", typed.Amount)
			default:
				_, err = fmt.Fprintf(out, "%s{}\n", ledger.Instructions.Name(ix))
			}
			return err
		},
	}
}

func decodeHex(value string) ([]byte, error) {
	decoded, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex %q", value)
	}
	return decoded, nil
}
