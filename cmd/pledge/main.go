package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/example/pledge/internal/cli"
	"github.com/example/pledge/internal/wire"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	_ = wire.Close()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
