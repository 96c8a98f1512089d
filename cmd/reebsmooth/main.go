package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/reebsmooth/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		cli.ReportError(os.Stderr, err)
		cancel()
		os.Exit(cli.ExitCode(err))
	}
}
