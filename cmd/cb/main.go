// cb runs cbuild on a CMSIS solution and jumps the editor to the first
// compiler error.
//
// Usage:
//
//	cb Blinky.csolution.yml   build the project and remember it
//	cb -c                     clean and rebuild the last project
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkoosis/nin/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewCBCommand(cli.DefaultEnv()), os.Args[1:])
	stop()
	os.Exit(code)
}
