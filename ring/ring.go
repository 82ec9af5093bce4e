// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// cell pairs a payload with the sequence word that hands it between
// producer and consumer. For enqueue index pos, sequence == pos means
// writable, sequence == pos+1 means readable, and sequence == pos+cap
// means the cell has been consumed and re-armed for the next lap.
type cell[T any] struct {
	sequence atomix.Uint64
	value    T
}

// Ring is a bounded FIFO queue. Construct one through [Build]; the
// zero value is not usable.
type Ring[T any] struct {
	_        pad
	enqueue  atomix.Uint64
	_        pad
	dequeue  atomix.Uint64
	_        pad
	cells    []cell[T]
	mask     uint64
	capacity uint64
	sp       bool // single producer: enqueue index updated by plain store
	sc       bool // single consumer: dequeue index updated by plain store
}

type pad [64]byte

func newRing[T any](capacity uint64, sp, sc bool) *Ring[T] {
	r := &Ring[T]{
		cells:    make([]cell[T], capacity),
		mask:     capacity - 1,
		capacity: capacity,
		sp:       sp,
		sc:       sc,
	}
	for i := range r.cells {
		r.cells[i].sequence.StoreRelaxed(uint64(i))
	}
	return r
}

// Cap returns the ring's capacity.
func (r *Ring[T]) Cap() int {
	return int(r.capacity)
}

// TryEnqueue appends v without retrying. Returns ErrWouldBlock if the
// ring is full, ErrContention if a concurrent producer claimed the
// cell first (transient; the ring was not necessarily full).
func (r *Ring[T]) TryEnqueue(v T) error {
	pos := r.enqueue.LoadRelaxed()
	c := &r.cells[pos&r.mask]
	seq := c.sequence.LoadAcquire()

	switch {
	case seq == pos:
		if r.sp {
			r.enqueue.StoreRelaxed(pos + 1)
		} else if !r.enqueue.CompareAndSwapRelaxed(pos, pos+1) {
			return ErrContention
		}
		c.value = v
		c.sequence.StoreRelease(pos + 1)
		return nil

	case seq < pos:
		// The cell still holds last lap's element: full.
		return ErrWouldBlock

	default:
		// A concurrent producer already advanced past this index.
		return ErrContention
	}
}

// Enqueue appends v, absorbing producer contention internally.
// Returns ErrWouldBlock if the ring is full.
func (r *Ring[T]) Enqueue(v T) error {
	sw := spin.Wait{}
	for {
		err := r.TryEnqueue(v)
		if err != ErrContention {
			return err
		}
		sw.Once()
	}
}

// TryDequeue removes the oldest element without retrying. Returns
// ErrWouldBlock if the ring is empty, ErrContention if a concurrent
// consumer claimed the cell first.
func (r *Ring[T]) TryDequeue() (T, error) {
	var zero T
	pos := r.dequeue.LoadRelaxed()
	c := &r.cells[pos&r.mask]
	seq := c.sequence.LoadAcquire()

	switch {
	case seq == pos+1:
		if r.sc {
			r.dequeue.StoreRelaxed(pos + 1)
		} else if !r.dequeue.CompareAndSwapRelaxed(pos, pos+1) {
			return zero, ErrContention
		}
		v := c.value
		c.value = zero
		// Re-arm the cell for the producer one lap ahead.
		c.sequence.StoreRelease(pos + r.capacity)
		return v, nil

	case seq < pos+1:
		// The cell has not been published this lap: empty.
		return zero, ErrWouldBlock

	default:
		return zero, ErrContention
	}
}

// Dequeue removes and returns the oldest element, absorbing consumer
// contention internally. Returns ErrWouldBlock if the ring is empty.
func (r *Ring[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		v, err := r.TryDequeue()
		if err != ErrContention {
			return v, err
		}
		sw.Once()
	}
}
