// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Pool is a fixed-capacity lock-free free list of indices.
//
// Acquire pops the head of the free list; Release pushes an index back
// at the head, stamping a fresh monotonic tag so a reused index can
// never be mistaken for a continuously-free one (ABA safety).
type Pool struct {
	_     pad
	head  atomix.Uint128 // lo=tag, hi=index+1 (0 means empty)
	_     pad
	next  []atomix.Uint64 // next[i] holds (successor index + 1), 0 = end of chain
	count int
}

type pad [64]byte

// New creates a pool with count free elements, indices [0, count).
// Panics if count < 1.
func New(count int) *Pool {
	if count < 1 {
		panic("pool: count must be >= 1")
	}
	p := &Pool{
		next:  make([]atomix.Uint64, count),
		count: count,
	}
	// Seed the free list by releasing every index, exactly as the
	// algorithm's constructor is specified: release is used during
	// initialization to push each one.
	for i := count - 1; i >= 0; i-- {
		p.Release(i)
	}
	return p
}

// Cap returns the pool's total capacity.
func (p *Pool) Cap() int {
	return p.count
}

// Acquire pops and returns the head of the free list.
// Returns ErrWouldBlock if the pool is exhausted.
func (p *Pool) Acquire() (int, error) {
	sw := spin.Wait{}
	for {
		tag, head := p.head.LoadAcquire()
		if head == 0 {
			return 0, ErrWouldBlock
		}
		idx := head - 1
		nextVal := p.next[idx].LoadAcquire()
		if p.head.CompareAndSwapAcqRel(tag, head, tag+1, nextVal) {
			return int(idx), nil
		}
		sw.Once()
	}
}

// Release pushes idx at the head of the free list with a fresh tag.
func (p *Pool) Release(idx int) {
	sw := spin.Wait{}
	for {
		tag, head := p.head.LoadAcquire()
		p.next[idx].StoreRelease(head)
		if p.head.CompareAndSwapAcqRel(tag, head, tag+1, uint64(idx+1)) {
			return
		}
		sw.Once()
	}
}

// Typed wraps a [Pool] with a caller-typed backing arena, so index
// acquisition and payload storage are a single call pair instead of a
// pool plus a parallel slice the caller must manage.
type Typed[T any] struct {
	Pool
	arena []T
}

// NewTyped creates a typed pool with count free elements.
func NewTyped[T any](count int) *Typed[T] {
	return &Typed[T]{
		Pool:  *New(count),
		arena: make([]T, count),
	}
}

// Acquire pops a free index and returns it. Use [Typed.Value] to access
// the element's storage.
func (t *Typed[T]) Acquire() (int, error) {
	return t.Pool.Acquire()
}

// Value returns a pointer to the element at idx.
func (t *Typed[T]) Value(idx int) *T {
	return &t.arena[idx]
}

// Release clears the element at idx and returns it to the free list.
func (t *Typed[T]) Release(idx int) {
	var zero T
	t.arena[idx] = zero
	t.Pool.Release(idx)
}
