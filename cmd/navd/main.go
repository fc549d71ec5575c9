package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "navd",
		Short: "Navigation bridge server",
		Long: `navd serves the client-side navigation demo: a chi mux with the
demo page, the WebSocket bridge endpoint every browser tab connects to,
and Prometheus metrics.

Each connected tab gets its own routing provider (path-based or
hash-based) driving the tab's history through the bridge.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
