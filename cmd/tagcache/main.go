package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfg config

	rootCmd := &cobra.Command{
		Use:          "tagcache",
		Short:        "Inspect and invalidate a Redis-backed tag cache",
		Long:         "Read and touch tag versions, read or write string entities, and clear entities without touching tags",
		SilenceUsage: true,
	}
	cfg.bindFlags(rootCmd)
	rootCmd.AddCommand(tagCmd(&cfg), getCmd(&cfg), setCmd(&cfg), clearCmd(&cfg))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
