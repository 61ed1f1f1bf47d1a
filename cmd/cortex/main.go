// Package main provides the entry point for the cortex CLI.
//
// The CLI manages connection profiles for the Cortex platform and inspects,
// streams and cancels the tasks of Cortex jobs. The command tree is declared
// once in the commands package; main only builds the process environment,
// runs the dispatcher and exits with the code it returns.
//
// EXIT CODES:
//   - 0: success
//   - 2: usage error (unknown command, bad flag, missing argument)
//   - 1: any other failure
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/commands"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/handlers"
)

func main() {
	env, err := handlers.NewEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, env, os.Args[1:])
	stop()
	os.Exit(code)
}
