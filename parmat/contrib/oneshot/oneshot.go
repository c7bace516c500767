// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

// Package oneshot provides a single-use channel that carries at most one
// value from exactly one producer to exactly one consumer.
//
// A pair is created with New. The Sender either sends one value or closes
// without sending; the Receiver either receives that outcome or drops its
// interest. Both ends are safe to use from different goroutines.
//
//	tx, rx := oneshot.New[int]()
//	go func() { _ = tx.Send(42) }()
//	v, err := rx.Recv(ctx)
package oneshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed is returned by Recv when the sender closed without sending.
	ErrClosed = errors.New("oneshot: sender closed without sending")

	// ErrDropped is returned by Send when the receiver dropped before the
	// value was delivered.
	ErrDropped = errors.New("oneshot: receiver dropped")

	// ErrUsed is returned when an end is used a second time.
	ErrUsed = errors.New("oneshot: already used")
)

type channel[T any] struct {
	// values has capacity one, so a Send never blocks. The sender closes it
	// to signal "no value".
	values   chan T
	dropped  chan struct{}
	dropOnce sync.Once
}

// Sender is the producing end of a one-shot channel.
type Sender[T any] struct {
	c    *channel[T]
	used atomic.Bool
}

// Receiver is the consuming end of a one-shot channel.
type Receiver[T any] struct {
	c    *channel[T]
	used atomic.Bool
}

// New returns a connected Sender and Receiver.
func New[T any]() (*Sender[T], *Receiver[T]) {
	c := &channel[T]{
		values:  make(chan T, 1),
		dropped: make(chan struct{}),
	}
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

// Send delivers v. It never blocks.
//
// Returns ErrDropped if the receiver has already dropped, and ErrUsed if
// Send or Close was called before. A drop that races with Send may go
// unnoticed; the value is then discarded with the channel.
func (s *Sender[T]) Send(v T) error {
	if !s.used.CompareAndSwap(false, true) {
		return ErrUsed
	}
	select {
	case <-s.c.dropped:
		return ErrDropped
	default:
	}
	s.c.values <- v
	return nil
}

// Close marks the channel as finished without a value. The receiver then
// gets ErrClosed. Close after Send, or a second Close, is a no-op.
func (s *Sender[T]) Close() {
	if s.used.CompareAndSwap(false, true) {
		close(s.c.values)
	}
}

// Dropped reports whether the receiver has dropped. Producers can use it to
// skip work nobody is waiting for.
func (s *Sender[T]) Dropped() bool {
	select {
	case <-s.c.dropped:
		return true
	default:
		return false
	}
}

// Recv waits for the value.
//
// Returns ErrClosed if the sender closed without sending, ctx.Err() if ctx
// ends first, and ErrUsed on a second call.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	if !r.used.CompareAndSwap(false, true) {
		return zero, ErrUsed
	}

	// A ready outcome wins over an expired context.
	select {
	case v, ok := <-r.c.values:
		return r.outcome(v, ok)
	default:
	}

	select {
	case v, ok := <-r.c.values:
		return r.outcome(v, ok)
	case <-ctx.Done():
		r.Drop()
		return zero, ctx.Err()
	}
}

func (r *Receiver[T]) outcome(v T, ok bool) (T, error) {
	if !ok {
		return v, ErrClosed
	}
	return v, nil
}

// Drop tells the sender that nobody will receive. It is safe to call more
// than once, and after Recv.
func (r *Receiver[T]) Drop() {
	r.c.dropOnce.Do(func() {
		close(r.c.dropped)
	})
}
