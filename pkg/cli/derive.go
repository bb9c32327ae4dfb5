package cli

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/sutils/pkg/solana"
	"github.com/code-payments/sutils/pkg/solana/binary"
)

func newDeriveCommand(opts *RootOptions) *cobra.Command {
	var programID string
	var seeds []string

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Find the canonical program derived address and bump for a set of seeds",
		Long: `Find the canonical program derived address and bump for a set of seeds.

Seeds are used in the order given. A seed is taken as UTF-8 text unless it has
one of the prefixes:
  hex:<hex>      raw bytes
  key:<base58>   a public key`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := opts.config.ProgramKey()
			if len(programID) > 0 {
				program, err = decodeKey(programID)
			}
			if err != nil {
				return err
			}

			decoded := make([][]byte, len(seeds))
			for i, seed := range seeds {
				decoded[i], err = parseSeed(seed)
				if err != nil {
					return err
				}
			}

			address, bump, err := solana.FindProgramAddressAndBump(program, decoded...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "address: %s\nbump: %d\n", base58.Encode(address), bump)
			return nil
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "program id (defaults to the configured program)")
	cmd.Flags().StringArrayVar(&seeds, "seed", nil, "seed, repeatable")

	return cmd
}

func parseSeed(seed string) ([]byte, error) {
	switch {
	case strings.HasPrefix(seed, "hex:"):
		decoded, err := hex.DecodeString(strings.TrimPrefix(seed, "hex:"))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid hex seed %q", seed)
		}
		return decoded, nil
	case strings.HasPrefix(seed, "key:"):
		return decodeKey(strings.TrimPrefix(seed, "key:"))
	}
	return []byte(seed), nil
}

func decodeKey(value string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid public key %q", value)
	}
	key, err := binary.ParsePublicKey(decoded)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid public key %q", value)
	}
	return key, nil
}
