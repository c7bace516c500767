// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a fixed pool of long-lived workers that
// compute one dot product per work item.
//
// Every worker owns its own FIFO queue. A producer picks the queue, so items
// sent to the same worker run in submission order while items on different
// workers run in parallel. Each item carries a private one-shot reply
// channel; the worker answers on it and moves on.
//
// A Pool is created once and can be reused across many operations, and by
// concurrent callers, since every item brings its own reply channel:
//
//	pool := workerpool.New[float64](4)
//	defer pool.Close()
//
//	tx, rx := oneshot.New[workerpool.WorkResult[float64]]()
//	err := pool.Submit(ctx, 0, workerpool.WorkItem[float64]{Idx: 0, Row: row, Col: col, Reply: tx})
//	res, err := rx.Recv(ctx)
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-parmat/parmat"
	"github.com/ajroetker/go-parmat/parmat/contrib/dot"
	"github.com/ajroetker/go-parmat/parmat/contrib/oneshot"
)

// WorkItem is one output cell to compute: the dot product of Row and Col,
// answered on Reply with the same Idx.
type WorkItem[T parmat.Numeric] struct {
	Idx   int
	Row   dot.Vector[T]
	Col   dot.Vector[T]
	Reply *oneshot.Sender[WorkResult[T]]
}

// WorkResult is the answer to a WorkItem. Exactly one of Value and Err is
// meaningful: Err is set when the dot product failed.
type WorkResult[T parmat.Numeric] struct {
	Idx   int
	Value T
	Err   error
}

// WorkerStats is a snapshot of one worker's counters.
type WorkerStats struct {
	// Processed counts results delivered, successful or not.
	Processed uint64
	// Failed counts delivered results that carried a dot-product error.
	Failed uint64
	// Dropped counts items whose receiver was gone.
	Dropped uint64
	// Panics counts items abandoned because computing them panicked.
	Panics uint64
}

// workerStats is written by one worker and read by Stats.
type workerStats struct {
	processed atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
	panics    atomic.Uint64
	_         cpu.CacheLinePad
}

// Pool is a fixed set of workers, each consuming its own queue.
type Pool[T parmat.Numeric] struct {
	queues []chan WorkItem[T]
	stats  []workerStats
	logger *slog.Logger
	before func(worker, idx int)

	// mu guards closed and the queues against close while a Submit is
	// sending.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      sync.WaitGroup
}

type options struct {
	queueDepth int
	logger     *slog.Logger
	before     func(worker, idx int)
}

// Option configures a Pool.
type Option func(*options)

// WithQueueDepth sets the capacity of each worker queue. Zero makes every
// Submit wait for its worker.
func WithQueueDepth(depth int) Option {
	return func(o *options) {
		if depth >= 0 {
			o.queueDepth = depth
		}
	}
}

// WithLogger sets the logger for delivery failures and recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBeforeCompute installs a hook the worker calls before each dot
// product. Tests use it to inject per-worker delays or failures.
func WithBeforeCompute(fn func(worker, idx int)) Option {
	return func(o *options) {
		o.before = fn
	}
}

// New creates a pool with numWorkers workers. Workers are spawned
// immediately and persist until Close is called.
// If numWorkers <= 0, uses parmat.Workers().
func New[T parmat.Numeric](numWorkers int, opts ...Option) *Pool[T] {
	if numWorkers <= 0 {
		numWorkers = parmat.Workers()
	}
	o := options{
		queueDepth: parmat.QueueDepth(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool[T]{
		queues: make([]chan WorkItem[T], numWorkers),
		stats:  make([]workerStats, numWorkers),
		logger: o.logger,
		before: o.before,
	}
	p.done.Add(numWorkers)
	for i := range numWorkers {
		p.queues[i] = make(chan WorkItem[T], o.queueDepth)
		go p.worker(i)
	}
	return p
}

// worker is the main loop for each worker goroutine. It exits once its
// queue is closed and drained.
func (p *Pool[T]) worker(id int) {
	defer p.done.Done()
	for item := range p.queues[id] {
		p.process(id, item)
	}
}

func (p *Pool[T]) process(id int, item WorkItem[T]) {
	st := &p.stats[id]
	defer func() {
		if r := recover(); r != nil {
			st.panics.Add(1)
			item.Reply.Close()
			p.logger.Error("workerpool: item panicked", "worker", id, "idx", item.Idx, "panic", r)
		}
	}()

	if item.Reply.Dropped() {
		st.dropped.Add(1)
		item.Reply.Close()
		p.logger.Debug("workerpool: skipping abandoned item", "worker", id, "idx", item.Idx)
		return
	}

	if p.before != nil {
		p.before(id, item.Idx)
	}

	res := WorkResult[T]{Idx: item.Idx}
	res.Value, res.Err = dot.Dot(item.Row, item.Col)

	if err := item.Reply.Send(res); err != nil {
		st.dropped.Add(1)
		p.logger.Debug("workerpool: reply not delivered", "worker", id, "idx", item.Idx, "err", err)
		return
	}
	st.processed.Add(1)
	if res.Err != nil {
		st.failed.Add(1)
	}
}

// Submit enqueues item on the queue of the given worker. It blocks while
// that queue is full, until ctx is done.
//
// On error the item's reply sender is closed, so a receiver waiting on it
// gets oneshot.ErrClosed instead of hanging. Returns parmat.ErrPoolClosed
// after Close.
func (p *Pool[T]) Submit(ctx context.Context, worker int, item WorkItem[T]) error {
	if item.Reply == nil {
		return errors.New("workerpool: work item has no reply channel")
	}
	if worker < 0 || worker >= len(p.queues) {
		item.Reply.Close()
		return fmt.Errorf("workerpool: worker %d out of range [0, %d)", worker, len(p.queues))
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		item.Reply.Close()
		return parmat.ErrPoolClosed
	}

	select {
	case p.queues[worker] <- item:
		return nil
	case <-ctx.Done():
		item.Reply.Close()
		return ctx.Err()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool[T]) NumWorkers() int {
	return len(p.queues)
}

// Stats returns a snapshot of every worker's counters, indexed by worker.
func (p *Pool[T]) Stats() []WorkerStats {
	out := make([]WorkerStats, len(p.stats))
	for i := range p.stats {
		st := &p.stats[i]
		out[i] = WorkerStats{
			Processed: st.processed.Load(),
			Failed:    st.failed.Load(),
			Dropped:   st.dropped.Load(),
			Panics:    st.panics.Load(),
		}
	}
	return out
}

// Close shuts down the pool. Items already queued are still processed;
// Close returns once every worker has exited.
// Calling Close multiple times is safe.
func (p *Pool[T]) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		for _, q := range p.queues {
			close(q)
		}
		p.mu.Unlock()
	})
	p.done.Wait()
}
