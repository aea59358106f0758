// nin runs ninja and jumps the editor to the first compiler error.
//
// Usage:
//
//	nin -t app.elf          build app.elf and remember it
//	nin                     build the last target again
//	nin -i                  pick a target from `ninja -t targets`
//	nin -c -w -s 2          clean first, stop at the third warning
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
	code := cli.Execute(ctx, cli.NewNinCommand(cli.DefaultEnv()), os.Args[1:])
	stop()
	os.Exit(code)
}
