// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ajroetker/go-parmat/parmat"
	"github.com/ajroetker/go-parmat/parmat/contrib/dot"
	"github.com/ajroetker/go-parmat/parmat/contrib/oneshot"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newItem(idx int, row, col []int) (WorkItem[int], *oneshot.Receiver[WorkResult[int]]) {
	tx, rx := oneshot.New[WorkResult[int]]()
	return WorkItem[int]{Idx: idx, Row: dot.NewVector(row), Col: dot.NewVector(col), Reply: tx}, rx
}

func TestNew(t *testing.T) {
	pool := New[int](4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	t.Setenv(parmat.EnvWorkers, "")
	pool := New[int](0)
	defer pool.Close()

	if pool.NumWorkers() != parmat.DefaultWorkers {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), parmat.DefaultWorkers)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(parmat.EnvWorkers, "3")
	pool := New[int](0)
	defer pool.Close()

	if pool.NumWorkers() != 3 {
		t.Errorf("NumWorkers() = %d, want 3", pool.NumWorkers())
	}
}

func TestSubmit(t *testing.T) {
	pool := New[int](2)
	defer pool.Close()

	item, rx := newItem(7, []int{1, 2, 3}, []int{4, 5, 6})
	if err := pool.Submit(context.Background(), 1, item); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	res, err := rx.Recv(context.Background())
	if err != nil {
		t.Fatalf("Recv() error = %v", err)
	}
	if res.Idx != 7 || res.Value != 32 || res.Err != nil {
		t.Errorf("result = %+v, want {Idx:7 Value:32}", res)
	}

	pool.Close()
	stats := pool.Stats()
	if stats[1].Processed != 1 || stats[0].Processed != 0 {
		t.Errorf("Stats() = %+v, want one item processed by worker 1", stats)
	}
}

func TestLengthMismatchIsDelivered(t *testing.T) {
	pool := New[int](1)
	defer pool.Close()

	item, rx := newItem(0, []int{1, 2}, []int{1})
	if err := pool.Submit(context.Background(), 0, item); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	res, err := rx.Recv(context.Background())
	if err != nil {
		t.Fatalf("Recv() error = %v", err)
	}
	if !errors.Is(res.Err, parmat.ErrLengthMismatch) {
		t.Errorf("result error = %v, want ErrLengthMismatch", res.Err)
	}

	// The failed item does not stop the worker.
	next, rx2 := newItem(1, []int{2}, []int{3})
	if err := pool.Submit(context.Background(), 0, next); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res, err := rx2.Recv(context.Background()); err != nil || res.Value != 6 {
		t.Errorf("second result = %+v, %v; want 6", res, err)
	}

	pool.Close()
	if st := pool.Stats()[0]; st.Failed != 1 || st.Processed != 2 {
		t.Errorf("Stats()[0] = %+v, want Failed=1 Processed=2", st)
	}
}

func TestFIFOPerWorker(t *testing.T) {
	var mu sync.Mutex
	var order []int
	seen := New[int](1, WithQueueDepth(16), WithBeforeCompute(func(_, idx int) {
		mu.Lock()
		order = append(order, idx)
		mu.Unlock()
	}))
	defer seen.Close()

	var receivers []*oneshot.Receiver[WorkResult[int]]
	for i := range 10 {
		item, rx := newItem(i, []int{i}, []int{1})
		if err := seen.Submit(context.Background(), 0, item); err != nil {
			t.Fatalf("Submit(%d) error = %v", i, err)
		}
		receivers = append(receivers, rx)
	}
	for _, rx := range receivers {
		if _, err := rx.Recv(context.Background()); err != nil {
			t.Fatalf("Recv() error = %v", err)
		}
	}

	for i, idx := range order {
		if idx != i {
			t.Fatalf("processing order = %v, want ascending", order)
		}
	}
}

func TestDroppedReceiverIsNotFatal(t *testing.T) {
	release := make(chan struct{})
	pool := New[int](1, WithLogger(quiet), WithBeforeCompute(func(_, idx int) {
		if idx == 0 {
			<-release
		}
	}))
	defer pool.Close()

	first, rx1 := newItem(0, []int{1}, []int{1})
	second, rx2 := newItem(1, []int{1}, []int{1})
	third, rx3 := newItem(2, []int{2}, []int{5})
	for _, item := range []WorkItem[int]{first, second, third} {
		if err := pool.Submit(context.Background(), 0, item); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	// Abandon the item being computed and the one queued behind it.
	rx1.Drop()
	rx2.Drop()
	close(release)

	res, err := rx3.Recv(context.Background())
	if err != nil || res.Value != 10 {
		t.Fatalf("third result = %+v, %v; want 10", res, err)
	}
	pool.Close()
	if st := pool.Stats()[0]; st.Dropped != 2 || st.Processed != 1 {
		t.Errorf("Stats()[0] = %+v, want Dropped=2 Processed=1", st)
	}
}

func TestPanicClosesReply(t *testing.T) {
	var panicked atomic.Bool
	pool := New[int](1, WithLogger(quiet), WithBeforeCompute(func(_, idx int) {
		if idx == 3 && panicked.CompareAndSwap(false, true) {
			panic("boom")
		}
	}))
	defer pool.Close()

	item, rx := newItem(3, []int{1}, []int{1})
	if err := pool.Submit(context.Background(), 0, item); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := rx.Recv(context.Background()); !errors.Is(err, oneshot.ErrClosed) {
		t.Fatalf("Recv() error = %v, want oneshot.ErrClosed", err)
	}

	// The worker survives and keeps serving.
	again, rx2 := newItem(3, []int{4}, []int{4})
	if err := pool.Submit(context.Background(), 0, again); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res, err := rx2.Recv(context.Background()); err != nil || res.Value != 16 {
		t.Errorf("result after panic = %+v, %v; want 16", res, err)
	}
	if st := pool.Stats()[0]; st.Panics != 1 {
		t.Errorf("Stats()[0].Panics = %d, want 1", st.Panics)
	}
}

func TestSubmitInvalidWorker(t *testing.T) {
	pool := New[int](2)
	defer pool.Close()

	item, rx := newItem(0, []int{1}, []int{1})
	if err := pool.Submit(context.Background(), 2, item); err == nil {
		t.Fatal("Submit() to worker 2 of 2 should fail")
	}
	if _, err := rx.Recv(context.Background()); !errors.Is(err, oneshot.ErrClosed) {
		t.Errorf("Recv() error = %v, want oneshot.ErrClosed", err)
	}

	if err := pool.Submit(context.Background(), 0, WorkItem[int]{}); err == nil {
		t.Error("Submit() without a reply channel should fail")
	}
}

func TestSubmitContextCancelled(t *testing.T) {
	block := make(chan struct{})
	pool := New[int](1, WithQueueDepth(0), WithBeforeCompute(func(_, _ int) { <-block }))
	defer pool.Close()
	defer close(block)

	busy, _ := newItem(0, []int{1}, []int{1})
	if err := pool.Submit(context.Background(), 0, busy); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	item, rx := newItem(1, []int{1}, []int{1})
	if err := pool.Submit(ctx, 0, item); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Submit() error = %v, want DeadlineExceeded", err)
	}
	if _, err := rx.Recv(context.Background()); !errors.Is(err, oneshot.ErrClosed) {
		t.Errorf("Recv() error = %v, want oneshot.ErrClosed", err)
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New[int](4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestCloseDrainsQueue(t *testing.T) {
	pool := New[int](2, WithQueueDepth(32))

	var receivers []*oneshot.Receiver[WorkResult[int]]
	for i := range 20 {
		item, rx := newItem(i, []int{i}, []int{2})
		if err := pool.Submit(context.Background(), i%2, item); err != nil {
			t.Fatalf("Submit(%d) error = %v", i, err)
		}
		receivers = append(receivers, rx)
	}
	pool.Close()

	for i, rx := range receivers {
		res, err := rx.Recv(context.Background())
		if err != nil || res.Value != 2*i {
			t.Errorf("item %d = %+v, %v; want %d", i, res, err, 2*i)
		}
	}
}

func TestSubmitAfterClose(t *testing.T) {
	pool := New[int](2)
	pool.Close()

	item, rx := newItem(0, []int{1}, []int{1})
	if err := pool.Submit(context.Background(), 0, item); !errors.Is(err, parmat.ErrPoolClosed) {
		t.Fatalf("Submit() error = %v, want ErrPoolClosed", err)
	}
	if _, err := rx.Recv(context.Background()); !errors.Is(err, oneshot.ErrClosed) {
		t.Errorf("Recv() error = %v, want oneshot.ErrClosed", err)
	}
}

func BenchmarkSubmitRecv(b *testing.B) {
	pool := New[float64](0)
	defer pool.Close()

	row := make([]float64, 64)
	col := make([]float64, 64)
	for i := range row {
		row[i] = float64(i)
		col[i] = 1
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tx, rx := oneshot.New[WorkResult[float64]]()
		item := WorkItem[float64]{Idx: i, Row: dot.NewVector(row), Col: dot.NewVector(col), Reply: tx}
		if err := pool.Submit(ctx, i%pool.NumWorkers(), item); err != nil {
			b.Fatal(err)
		}
		if _, err := rx.Recv(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
