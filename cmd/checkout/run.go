package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run starts the application, blocks until a signal or an fx shutdown and
// returns the process exit code.
func run(ctx context.Context, app *fx.App) int {
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 2
	}

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start application: %v\n", err)
		return 1
	}

	var code int
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop application: %v\n", err)
		return 1
	}
	return code
}
