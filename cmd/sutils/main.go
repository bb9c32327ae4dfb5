package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/sutils/pkg/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		logrus.StandardLogger().WithError(err).Error("command failed")
		cancel()
		os.Exit(1)
	}
}
