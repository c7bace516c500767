// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-parmat/parmat"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the platform and the pool configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printInfo(cmd.OutOrStdout())
			return nil
		},
	}
}

func printInfo(w io.Writer) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "GOOS: %s\n", runtime.GOOS)
	p.Fprintf(w, "GOARCH: %s\n", runtime.GOARCH)
	p.Fprintf(w, "NumCPU: %d\n", runtime.NumCPU())
	p.Fprintf(w, "GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	p.Fprintf(w, "Cache line: %d bytes\n", parmat.CacheLineSize)

	features := parmat.CPUFeatures()
	present := lo.FilterMap(features, func(f parmat.Feature, _ int) (string, bool) {
		return f.Name, f.Present
	})
	if len(features) > 0 {
		p.Fprintf(w, "CPU features: %s\n", strings.Join(present, " "))
	}
	p.Fprintln(w)

	timeout := "none"
	if d := parmat.ReplyTimeout(); d > 0 {
		timeout = d.String()
	}
	p.Fprintf(w, "Workers: %d (%s)\n", parmat.Workers(), parmat.EnvWorkers)
	p.Fprintf(w, "Queue depth: %d (%s)\n", parmat.QueueDepth(), parmat.EnvQueueDepth)
	p.Fprintf(w, "Reply timeout: %s (%s)\n", timeout, parmat.EnvReplyTimeout)
	p.Fprintf(w, "Log level: %s (%s)\n", parmat.LogLevel(), parmat.EnvLogLevel)
}
