// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-parmat/parmat"
	"github.com/ajroetker/go-parmat/parmat/contrib/matmul"
	"github.com/ajroetker/go-parmat/parmat/contrib/workerpool"
)

type multiplyOptions struct {
	a, b       string
	elemType   string
	workers    int
	queueDepth int
	timeout    time.Duration
	verify     bool
}

func newMultiplyCmd() *cobra.Command {
	var opts multiplyOptions

	cmd := &cobra.Command{
		Use:   "multiply",
		Short: "Multiply two matrices given as literals",
		Example: `  parmat multiply --a "1,2,3;4,5,6" --b "1,2;3,4;5,6"
  parmat multiply -t float64 -w 8 --verify --a "0.5,1;2,4" --b "1;1"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.elemType {
			case "int":
				return runMultiply(cmd, opts, parseInt)
			case "float64":
				return runMultiply(cmd, opts, parseFloat)
			default:
				return fmt.Errorf("unsupported --type %q (want int or float64)", opts.elemType)
			}
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.a, "a", "", `left matrix, rows separated by ';' and elements by ',' (e.g. "1,2;3,4")`)
	f.StringVar(&opts.b, "b", "", "right matrix, same syntax as --a")
	f.StringVarP(&opts.elemType, "type", "t", "int", "element type: int or float64")
	f.IntVarP(&opts.workers, "workers", "w", parmat.Workers(), "number of workers (default from "+parmat.EnvWorkers+")")
	f.IntVar(&opts.queueDepth, "queue-depth", parmat.QueueDepth(), "per-worker queue capacity (default from "+parmat.EnvQueueDepth+")")
	f.DurationVar(&opts.timeout, "timeout", parmat.ReplyTimeout(), "deadline for each reply, 0 waits forever (default from "+parmat.EnvReplyTimeout+")")
	f.BoolVar(&opts.verify, "verify", false, "check the product against gonum")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func runMultiply[T parmat.Numeric](cmd *cobra.Command, opts multiplyOptions, parse func(string) (T, error)) error {
	a, err := parseMatrix(opts.a, parse)
	if err != nil {
		return fmt.Errorf("--a: %w", err)
	}
	b, err := parseMatrix(opts.b, parse)
	if err != nil {
		return fmt.Errorf("--b: %w", err)
	}

	pool := workerpool.New[T](opts.workers,
		workerpool.WithQueueDepth(opts.queueDepth),
		workerpool.WithLogger(slog.Default()))
	defer pool.Close()

	start := time.Now()
	c, err := matmul.MultiplyWithPool(cmd.Context(), pool, a, b, matmul.WithReplyTimeout(opts.timeout))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if opts.verify {
		if err := verify(a, b, c); err != nil {
			return err
		}
		slog.Info("verified against gonum", "rows", c.Rows(), "cols", c.Cols())
	}

	if err := writeMatrix(cmd.OutOrStdout(), c); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(cmd.ErrOrStderr(), "%dx%d result: %d cells on %d workers in %v\n",
		c.Rows(), c.Cols(), c.Len(), pool.NumWorkers(), elapsed)

	pool.Close()
	for i, st := range pool.Stats() {
		slog.Debug("worker stats", "worker", i,
			"processed", st.Processed, "failed", st.Failed, "dropped", st.Dropped, "panics", st.Panics)
	}
	return nil
}

// verify recomputes a * b with gonum and compares it with c.
func verify[T parmat.Numeric](a, b, c *parmat.Matrix[T]) error {
	if c.Len() == 0 || a.Cols() == 0 {
		// gonum cannot represent these shapes; the product is trivially
		// empty or all zeros.
		return nil
	}
	ad, err := parmat.ToDense(a)
	if err != nil {
		return err
	}
	bd, err := parmat.ToDense(b)
	if err != nil {
		return err
	}
	got, err := parmat.ToDense(c)
	if err != nil {
		return err
	}

	var want mat.Dense
	want.Mul(ad, bd)
	if !mat.EqualApprox(&want, got, 1e-9) {
		return fmt.Errorf("verification failed: gonum computed\n%v", mat.Formatted(&want))
	}
	return nil
}
