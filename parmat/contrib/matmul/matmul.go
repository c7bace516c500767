// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

// Package matmul multiplies matrices by fanning one dot-product work item
// per output cell out to a worker pool and fanning the replies back in.
//
// For C = A * B with A m x k and B k x n, cell idx of C (row idx/n, column
// idx%n) becomes one work item carrying a copy of row idx/n of A, a copy of
// column idx%n of B and a private one-shot reply channel. Items are routed
// to worker idx % N. Replies are awaited in submission order, but each value
// is written at the index its reply carries, so the result does not depend
// on which worker finished first.
//
// Usage:
//
//	c, err := matmul.Multiply(a, b)
//
//	// Or reuse a pool across many products.
//	pool := workerpool.New[float64](8)
//	defer pool.Close()
//	for _, layer := range layers {
//	    out, err := matmul.MultiplyWithPool(ctx, pool, in, layer)
//	}
package matmul

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajroetker/go-parmat/parmat"
	"github.com/ajroetker/go-parmat/parmat/contrib/dot"
	"github.com/ajroetker/go-parmat/parmat/contrib/oneshot"
	"github.com/ajroetker/go-parmat/parmat/contrib/workerpool"
)

// ItemError reports the failure of a single output cell.
type ItemError struct {
	Idx int
	Err error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("matmul: cell %d: %v", e.Idx, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

type options struct {
	replyTimeout time.Duration
}

// Option configures a multiply call.
type Option func(*options)

// WithReplyTimeout bounds the wait for each individual reply. When it
// expires the whole call fails with parmat.ErrReplyTimeout. Zero disables
// the deadline. The default comes from parmat.ReplyTimeout().
func WithReplyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.replyTimeout = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{replyTimeout: parmat.ReplyTimeout()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Multiply computes a * b on a fresh pool of parmat.Workers() workers that
// is closed before returning.
//
// Returns parmat.ErrDimensionMismatch, before any worker is started, if
// a.Cols() != b.Rows().
func Multiply[T parmat.Numeric](a, b *parmat.Matrix[T], opts ...Option) (*parmat.Matrix[T], error) {
	return MultiplyContext(context.Background(), a, b, opts...)
}

// MultiplyContext is like Multiply but stops waiting when ctx is done.
func MultiplyContext[T parmat.Numeric](ctx context.Context, a, b *parmat.Matrix[T], opts ...Option) (*parmat.Matrix[T], error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	if a.Rows()*b.Cols() == 0 {
		return parmat.Zeros[T](a.Rows(), b.Cols()), nil
	}

	pool := workerpool.New[T](parmat.Workers())
	defer pool.Close()
	return MultiplyWithPool(ctx, pool, a, b, opts...)
}

// MultiplyWithPool computes a * b using a caller-owned pool. The pool may
// be shared by concurrent calls; each call owns its work items and reply
// channels.
//
// A failed cell (dot-product error or a reply channel closed without a
// value) fails the whole call and no partial matrix is returned. The pool
// stays usable for later calls.
func MultiplyWithPool[T parmat.Numeric](ctx context.Context, pool *workerpool.Pool[T], a, b *parmat.Matrix[T], opts ...Option) (*parmat.Matrix[T], error) {
	if err := checkShapes(a, b); err != nil {
		return nil, err
	}
	m, n := a.Rows(), b.Cols()
	if m*n == 0 {
		return parmat.Zeros[T](m, n), nil
	}
	if pool == nil {
		return nil, errors.New("matmul: nil worker pool")
	}
	o := newOptions(opts)

	receivers, err := dispatch(ctx, pool, a, b)
	if err != nil {
		return nil, err
	}
	data, err := collect(ctx, receivers, o.replyTimeout)
	if err != nil {
		return nil, err
	}
	return parmat.New(data, m, n)
}

// MustMultiply is like Multiply but panics on error.
func MustMultiply[T parmat.Numeric](a, b *parmat.Matrix[T]) *parmat.Matrix[T] {
	c, err := Multiply(a, b)
	if err != nil {
		panic(fmt.Sprintf("matmul: multiply failed: %v", err))
	}
	return c
}

func checkShapes[T parmat.Numeric](a, b *parmat.Matrix[T]) error {
	if a.Cols() != b.Rows() {
		return fmt.Errorf("%w: %dx%d * %dx%d (a.cols %d != b.rows %d)",
			parmat.ErrDimensionMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols(), a.Cols(), b.Rows())
	}
	return nil
}

// dispatch submits one work item per output cell, in row-major order, and
// returns the reply receivers in submission order.
func dispatch[T parmat.Numeric](ctx context.Context, pool *workerpool.Pool[T], a, b *parmat.Matrix[T]) ([]*oneshot.Receiver[workerpool.WorkResult[T]], error) {
	n := b.Cols()
	total := a.Rows() * n
	workers := pool.NumWorkers()

	receivers := make([]*oneshot.Receiver[workerpool.WorkResult[T]], 0, total)
	for idx := range total {
		tx, rx := oneshot.New[workerpool.WorkResult[T]]()
		item := workerpool.WorkItem[T]{
			Idx:   idx,
			Row:   dot.NewVector(a.Row(idx / n)),
			Col:   dot.NewVector(b.Col(idx % n)),
			Reply: tx,
		}
		if err := pool.Submit(ctx, idx%workers, item); err != nil {
			drop(receivers)
			return nil, fmt.Errorf("matmul: submit cell %d: %w", idx, err)
		}
		receivers = append(receivers, rx)
	}
	return receivers, nil
}

// collect waits on every receiver in turn and places each value at the
// index its reply carries. On failure the receivers not yet read are
// dropped so workers can skip or discard their results.
func collect[T parmat.Numeric](ctx context.Context, receivers []*oneshot.Receiver[workerpool.WorkResult[T]], timeout time.Duration) ([]T, error) {
	total := len(receivers)
	data := make([]T, total)
	filled := make([]bool, total)

	for i, rx := range receivers {
		res, err := receive(ctx, rx, timeout)
		if err != nil {
			drop(receivers[i:])
			return nil, fmt.Errorf("matmul: reply %d: %w", i, err)
		}
		if res.Idx < 0 || res.Idx >= total || filled[res.Idx] {
			drop(receivers[i+1:])
			return nil, fmt.Errorf("%w: reply %d carried index %d", parmat.ErrResultIndex, i, res.Idx)
		}
		if res.Err != nil {
			drop(receivers[i+1:])
			return nil, &ItemError{Idx: res.Idx, Err: res.Err}
		}
		filled[res.Idx] = true
		data[res.Idx] = res.Value
	}
	return data, nil
}

func receive[T parmat.Numeric](ctx context.Context, rx *oneshot.Receiver[workerpool.WorkResult[T]], timeout time.Duration) (workerpool.WorkResult[T], error) {
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := rx.Recv(waitCtx)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, oneshot.ErrClosed):
		return res, parmat.ErrChannelClosed
	case timeout > 0 && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded):
		return res, fmt.Errorf("%w after %v", parmat.ErrReplyTimeout, timeout)
	default:
		return res, err
	}
}

func drop[T parmat.Numeric](receivers []*oneshot.Receiver[workerpool.WorkResult[T]]) {
	for _, rx := range receivers {
		rx.Drop()
	}
}
