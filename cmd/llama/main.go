// Command llama runs and inspects a llama application from its
// configuration file alone. Routes and configuration are read from the INI
// file; controllers exist only in application binaries, so serve answers
// 404 for configured routes. Application mains embed the same commands
// through package cli with their own module factory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/llama/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.New(cli.ConfigOnly).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "llama:", err)
		cancel()
		os.Exit(1)
	}
}
