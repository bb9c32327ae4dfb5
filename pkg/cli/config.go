package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/code-payments/sutils/pkg/config"
)

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config-init",
		Short: "Write the default configuration to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().Save(opts.ConfigPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote configuration to %s\n", opts.ConfigPath)
			return nil
		},
	}
}

func newConfigShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config-show",
		Short: "Print the configuration in --config, environment overrides applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}

			encoded, err := yaml.Marshal(loaded)
			if err != nil {
				return errors.Wrap(err, "failed to serialize configuration")
			}

			_, err = cmd.OutOrStdout().Write(encoded)
			return err
		},
	}
}
