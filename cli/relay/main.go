package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	relaycmder "github.com/papercomputeco/relay/cmd/relay"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := relaycmder.NewRelayCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
