// Command pksnap converts legacy PBPK project files, reads and writes
// project snapshots and runs batch qualification.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, opts := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	if cerr := opts.close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		stop()
		os.Exit(1)
	}
}
