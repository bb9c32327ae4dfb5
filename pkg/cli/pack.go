package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/sutils/pkg/ledger"
)

func newPackCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Print the packed instruction data of a ledger instruction as hex",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:  "init",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPacked(cmd, &ledger.Init{Force: force})
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing state")

	cmd.AddCommand(
		&cobra.Command{
			Use:  "hello <message>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printPacked(cmd, &ledger.Hello{Msg: []byte(args[0])})
			},
		},
		initCmd,
		&cobra.Command{
			Use:  "open",
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printPacked(cmd, &ledger.OpenBalance{})
			},
		},
		&cobra.Command{
			Use:  "deposit <amount>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				return printPacked(cmd, &ledger.Deposit{Amount: amount})
			},
		},
		&cobra.Command{
			Use:  "withdraw <amount>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				return printPacked(cmd, &ledger.Withdraw{Amount: amount})
			},
		},
	)

	return cmd
}

func printPacked(cmd *cobra.Command, ix ledger.Instruction) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ix.Pack()))
	return err
}

func parseAmount(value string) (uint64, error) {
	amount, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid amount %q", value)
	}
	return amount, nil
}
