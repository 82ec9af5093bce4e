// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package deque

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// Deque is a work-stealing deque. Push and Take belong to one owner
// goroutine; Steal is safe from any number of thieves.
type Deque[T any] struct {
	_      pad
	top    atomix.Int64
	_      pad
	bottom atomix.Int64
	_      pad
	array  atomic.Pointer[ringArray[T]]
}

type pad [64]byte

// ringArray is one generation of backing storage. Elements are held
// as atomic pointers so a thief's read of a slot the owner is
// concurrently recycling is a stale-but-whole pointer, never a torn
// value; the CAS on top decides whose read counts.
type ringArray[T any] struct {
	mask int64
	buf  []atomic.Pointer[T]
}

func newRingArray[T any](size int64) *ringArray[T] {
	return &ringArray[T]{
		mask: size - 1,
		buf:  make([]atomic.Pointer[T], size),
	}
}

func (a *ringArray[T]) get(i int64) *T    { return a.buf[i&a.mask].Load() }
func (a *ringArray[T]) put(i int64, p *T) { a.buf[i&a.mask].Store(p) }

// grow returns a doubled array holding [top, bottom). The old array
// is left for concurrent stealers and, eventually, the collector.
func (a *ringArray[T]) grow(bottom, top int64) *ringArray[T] {
	na := newRingArray[T]((a.mask + 1) * 2)
	for i := top; i < bottom; i++ {
		na.put(i, a.get(i))
	}
	return na
}

// New creates a deque with the given initial capacity, rounded up to
// a power of two, minimum 8. Panics if capacity < 1.
func New[T any](capacity int) *Deque[T] {
	if capacity < 1 {
		panic("deque: capacity must be >= 1")
	}
	size := int64(8)
	for size < int64(capacity) {
		size <<= 1
	}
	d := &Deque[T]{}
	d.array.Store(newRingArray[T](size))
	return d
}

// Len returns a point-in-time element count, only exact when neither
// the owner nor any thief is mid-operation.
func (d *Deque[T]) Len() int {
	b := d.bottom.LoadRelaxed()
	t := d.top.LoadRelaxed()
	if b < t {
		return 0
	}
	return int(b - t)
}

// Push appends v at the bottom. Owner only. Never fails: a full
// backing array is replaced by a new one of twice the size.
func (d *Deque[T]) Push(v T) {
	b := d.bottom.LoadRelaxed()
	t := d.top.LoadAcquire()
	a := d.array.Load()
	if b-t > a.mask {
		a = a.grow(b, t)
		d.array.Store(a)
	}
	a.put(b, &v)
	d.bottom.StoreRelease(b + 1)
}

// Take pops from the bottom. Owner only. Returns ErrWouldBlock when
// the deque is empty, including when a thief wins the race for the
// last element.
func (d *Deque[T]) Take() (T, error) {
	var zero T
	b := d.bottom.LoadRelaxed() - 1
	a := d.array.Load()
	// The store of bottom must be visible to thieves before we read
	// top; like the hazard-pointer publish in smr, this relies on the
	// release store and acquire load pairing atomix provides over the
	// platform's sequentially consistent atomics.
	d.bottom.StoreRelease(b)
	t := d.top.LoadAcquire()

	if b < t {
		// Already empty; restore bottom.
		d.bottom.StoreRelease(b + 1)
		return zero, ErrWouldBlock
	}

	p := a.get(b)
	if b > t {
		// More than one element: the bottom one is ours outright.
		a.put(b, nil)
		return *p, nil
	}

	// Last element: race any thief via CAS on top. Either way the
	// deque ends up empty with bottom == top == t+1.
	won := d.top.CompareAndSwapAcqRel(t, t+1)
	d.bottom.StoreRelease(b + 1)
	if !won {
		return zero, ErrWouldBlock
	}
	a.put(b, nil)
	return *p, nil
}

// Steal pops from the top. Safe from any goroutine. Returns
// ErrWouldBlock when the deque is empty, ErrContention when another
// thief (or the owner taking the last element) won the CAS; contention
// is transient and the caller decides whether to retry.
func (d *Deque[T]) Steal() (T, error) {
	var zero T
	t := d.top.LoadAcquire()
	b := d.bottom.LoadAcquire()
	if t >= b {
		return zero, ErrWouldBlock
	}
	a := d.array.Load()
	p := a.get(t)
	if !d.top.CompareAndSwapAcqRel(t, t+1) {
		return zero, ErrContention
	}
	return *p, nil
}
