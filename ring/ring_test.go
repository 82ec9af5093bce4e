// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"code.hybscloud.com/conc/ring"
)

func TestRingFIFO(t *testing.T) {
	q := ring.Build[int](ring.New(8))

	if _, err := q.Dequeue(); !ring.IsWouldBlock(err) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
	for i := 0; i < 8; i++ {
		if err := q.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if err := q.Enqueue(8); !ring.IsWouldBlock(err) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}
	for i := 0; i < 8; i++ {
		v, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if v != i {
			t.Fatalf("Dequeue(%d): got %d", i, v)
		}
	}
	if _, err := q.TryDequeue(); !ring.IsWouldBlock(err) {
		t.Fatalf("TryDequeue after drain: got %v, want ErrWouldBlock", err)
	}
}

func TestRingCapacity(t *testing.T) {
	if got := ring.Build[int](ring.New(2)).Cap(); got != 2 {
		t.Fatalf("Cap(2): got %d, want 2", got)
	}
	if got := ring.Build[int](ring.New(1000)).Cap(); got != 1024 {
		t.Fatalf("Cap(1000): got %d, want 1024 (rounded up)", got)
	}

	for _, bad := range []int{-1, 0, 1, (1 << 28) + 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%d): expected panic", bad)
				}
			}()
			ring.New(bad)
		}()
	}
}

// TestRingWrapAround cycles a small ring through many laps so every
// cell's sequence wraps its lap counter repeatedly.
func TestRingWrapAround(t *testing.T) {
	q := ring.Build[int](ring.New(4))
	for lap := 0; lap < 100; lap++ {
		for i := 0; i < 4; i++ {
			if err := q.Enqueue(lap*4 + i); err != nil {
				t.Fatalf("lap %d Enqueue(%d): %v", lap, i, err)
			}
		}
		for i := 0; i < 4; i++ {
			v, err := q.Dequeue()
			if err != nil {
				t.Fatalf("lap %d Dequeue(%d): %v", lap, i, err)
			}
			if v != lap*4+i {
				t.Fatalf("lap %d Dequeue(%d): got %d", lap, i, v)
			}
		}
	}
}

// TestRingVariants checks that all four producer/consumer declarations
// move elements correctly under a matching goroutine layout.
func TestRingVariants(t *testing.T) {
	cases := []struct {
		name      string
		build     func() *ring.Ring[int]
		producers int
		consumers int
	}{
		{"SPSC", func() *ring.Ring[int] { return ring.Build[int](ring.New(64).SingleProducer().SingleConsumer()) }, 1, 1},
		{"SPMC", func() *ring.Ring[int] { return ring.Build[int](ring.New(64).SingleProducer()) }, 1, 4},
		{"MPSC", func() *ring.Ring[int] { return ring.Build[int](ring.New(64).SingleConsumer()) }, 4, 1},
		{"MPMC", func() *ring.Ring[int] { return ring.Build[int](ring.New(64)) }, 4, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.build()
			const perProducer = 10000
			total := int64(tc.producers) * perProducer

			var wg sync.WaitGroup
			for p := 0; p < tc.producers; p++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perProducer; i++ {
						for q.Enqueue(1) != nil {
							// full: retry
						}
					}
				}()
			}

			var sum atomic.Int64
			var consumed atomic.Int64
			var cwg sync.WaitGroup
			for c := 0; c < tc.consumers; c++ {
				cwg.Add(1)
				go func() {
					defer cwg.Done()
					for consumed.Load() < total {
						v, err := q.Dequeue()
						if err != nil {
							continue
						}
						sum.Add(int64(v))
						consumed.Add(1)
					}
				}()
			}

			wg.Wait()
			cwg.Wait()
			if sum.Load() != total {
				t.Fatalf("sum: got %d, want %d", sum.Load(), total)
			}
		})
	}
}

// TestMPMCHighContention: 256 cells, 16 producers x 16 consumers,
// each producer enqueuing 10000 messages with payload b=22. The sum
// of all dequeued b values must be 16*10000*22 = 3,520,000 and no
// message may be delivered twice.
func TestMPMCHighContention(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test skipped in -short mode")
	}
	const producers = 16
	const consumers = 16
	const perProducer = 10000
	const total = producers * perProducer

	type message struct {
		a uint32 // unique id: producer*perProducer + i
		b uint32
	}
	q := ring.Build[message](ring.New(256))

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				m := message{a: uint32(p*perProducer + i), b: 22}
				for q.Enqueue(m) != nil {
					// full: retry
				}
			}
		}(p)
	}

	seen := make([]int32, total)
	var sum atomic.Int64
	var consumed atomic.Int64
	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for consumed.Load() < total {
				m, err := q.Dequeue()
				if err != nil {
					continue
				}
				if atomic.AddInt32(&seen[m.a], 1) != 1 {
					t.Errorf("message %d delivered twice", m.a)
				}
				sum.Add(int64(m.b))
				consumed.Add(1)
			}
		}()
	}

	wg.Wait()
	cwg.Wait()

	if got := sum.Load(); got != 3_520_000 {
		t.Fatalf("checksum: got %d, want 3520000", got)
	}
}

func TestRingTryStatuses(t *testing.T) {
	q := ring.Build[int](ring.New(2))

	if _, err := q.TryDequeue(); !ring.IsWouldBlock(err) {
		t.Fatalf("TryDequeue empty: got %v", err)
	}
	if err := q.TryEnqueue(1); err != nil {
		t.Fatalf("TryEnqueue: %v", err)
	}
	if err := q.TryEnqueue(2); err != nil {
		t.Fatalf("TryEnqueue: %v", err)
	}
	if err := q.TryEnqueue(3); !ring.IsWouldBlock(err) {
		t.Fatalf("TryEnqueue full: got %v, want ErrWouldBlock", err)
	}
	if errors.Is(ring.ErrContention, ring.ErrWouldBlock) {
		t.Fatalf("ErrContention must be distinct from ErrWouldBlock")
	}
	if !ring.IsSemantic(ring.ErrWouldBlock) {
		t.Fatalf("ErrWouldBlock must classify as semantic")
	}
}

func BenchmarkRingEnqueueDequeue(b *testing.B) {
	q := ring.Build[int](ring.New(1024))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := q.Enqueue(i); err != nil {
			b.Fatalf("Enqueue: %v", err)
		}
		if _, err := q.Dequeue(); err != nil {
			b.Fatalf("Dequeue: %v", err)
		}
	}
}

func BenchmarkRingContended(b *testing.B) {
	q := ring.Build[int](ring.New(1024))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for q.Enqueue(1) != nil {
			}
			for {
				if _, err := q.Dequeue(); err == nil {
					break
				}
			}
		}
	})
}
