package cli

import (
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/code-payments/sutils/pkg/config"
	"github.com/code-payments/sutils/pkg/metrics"
)

// RootOptions holds the persistent flags and the state they resolve to.
type RootOptions struct {
	ConfigPath string
	JSONLogs   bool

	config   *config.Configuration
	newRelic *newrelic.Application
}

// NewRootCommand creates the sutils command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "sutils",
		Short:         "Tools for discriminator tagged program accounts and instructions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.newRelic != nil {
				opts.newRelic.Shutdown(5 * time.Second)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "config.yaml", "configuration file")
	cmd.PersistentFlags().BoolVar(&opts.JSONLogs, "json-logs", false, "emit logs as JSON")

	cmd.AddCommand(
		newConfigInitCommand(opts),
		newConfigShowCommand(opts),
		newDeriveCommand(opts),
		newPackCommand(opts),
		newDecodeCommand(opts),
		newDecodeInstructionCommand(opts),
		newSimulateCommand(opts),
	)

	return cmd
}

// setup loads the configuration file when there is one, then configures
// logging and metrics from it.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	o.config = config.Default()

	if _, err := os.Stat(o.ConfigPath); err == nil {
		o.config, err = config.Load(o.ConfigPath)
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to check if config exists")
	}

	if len(o.config.NewRelicLicenseKey) > 0 {
		app, err := newrelic.NewApplication(
			newrelic.ConfigAppName(o.config.AppName),
			newrelic.ConfigLicense(o.config.NewRelicLicenseKey),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			return errors.Wrap(err, "error connecting to new relic")
		}

		o.newRelic = app
		cmd.SetContext(metrics.WithNewRelic(cmd.Context(), app))
	}

	o.configureLogger(cmd)
	return nil
}

func (o *RootOptions) configureLogger(cmd *cobra.Command) {
	var formatter logrus.Formatter = &logrus.TextFormatter{}
	if o.JSONLogs {
		formatter = &logrus.JSONFormatter{}
	}
	if o.newRelic != nil {
		formatter = metrics.NewLogFormatter(o.newRelic, formatter)
	}
	logrus.SetFormatter(formatter)

	level, err := logrus.ParseLevel(o.config.LogLevel)
	if err != nil {
		logrus.StandardLogger().WithField("log_level", o.config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(cmd.ErrOrStderr())
}
