package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"teamnotify/internal/config"
	"teamnotify/internal/logging"
	"teamnotify/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			reportError(os.Stdout, os.Stderr, err)
		}
		os.Exit(services.ExitCode(err))
	}
}

// reportError surfaces the single failure diagnostic of a run. Under GitHub
// Actions it is an ::error:: workflow command, which the runner reads from
// stdout.
func reportError(stdout, stderr io.Writer, err error) {
	if config.InGitHubActions() {
		fmt.Fprintln(stdout, logging.FormatWorkflowError(err.Error()))
		return
	}
	fmt.Fprintln(stderr, err)
}
