package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"worklog/internal/cli"
	"worklog/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(buildApp)

	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.GetUserMessage(err))
		stop()
		os.Exit(1)
	}
}
