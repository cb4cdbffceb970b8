// Command refiner turns a project description into a markdown roadmap by
// calling the project refiner service.
//
// Usage:
//
//	refiner [flags]                          interactive TUI
//	refiner generate [description|-] [flags] non-interactive generation
//	refiner examples [show <key>]            list or print example descriptions
//	refiner health                           probe the service
//	refiner list                             list downloaded roadmaps
//
// Configuration is read from $XDG_CONFIG_HOME/refiner/config.yaml and
// REFINER_* environment variables; flags override both.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"k8s.io/klog/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "refiner: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer klog.Flush()

	return newRootCmd().ExecuteContext(ctx)
}
