// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

// Command parmat multiplies matrices on a worker pool and reports the
// runtime the pool would use.
//
// Usage:
//
//	parmat multiply --a "1,2,3;4,5,6" --b "1,2;3,4;5,6"
//	parmat multiply --type float64 --workers 8 --verify --a ... --b ...
//	parmat info
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-parmat/parmat"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "parmat",
		Short:         "Multiply matrices on a pool of dot-product workers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := parmat.LogLevel()
			if cmd.Flags().Changed("log-level") {
				if err := level.UnmarshalText([]byte(logLevel)); err != nil {
					return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
				}
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn or error (default from "+parmat.EnvLogLevel+")")

	root.AddCommand(newMultiplyCmd(), newInfoCmd())
	return root
}
