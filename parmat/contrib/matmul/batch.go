// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-parmat/parmat"
	"github.com/ajroetker/go-parmat/parmat/contrib/workerpool"
)

// Pair is one product A * B in a batch.
type Pair[T parmat.Numeric] struct {
	A, B *parmat.Matrix[T]
}

// MultiplyBatch computes every pair concurrently on one shared pool and
// returns the products in input order. The first failure cancels the
// remaining products and is returned.
func MultiplyBatch[T parmat.Numeric](ctx context.Context, pool *workerpool.Pool[T], pairs []Pair[T], opts ...Option) ([]*parmat.Matrix[T], error) {
	out := make([]*parmat.Matrix[T], len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range pairs {
		g.Go(func() error {
			c, err := MultiplyWithPool(ctx, pool, p.A, p.B, opts...)
			if err != nil {
				return fmt.Errorf("matmul: pair %d: %w", i, err)
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
