// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/conc/smr"
)

// node next/head/tail links use sync/atomic.Pointer[T] rather than
// this module's atomix package: atomix has no generic atomic-pointer
// type, and storing the bit pattern of a pointer in an integer atomic
// would hide queue nodes from the garbage collector, risking
// premature collection of a node a hazard slot still protects.
// atomic.Pointer[T] keeps every node GC-reachable while still giving
// the CAS primitive the Michael–Scott algorithm needs.
type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
}

// Queue is an unbounded multi-producer multi-consumer FIFO queue.
// It always carries a dummy node so head never equals a
// value-bearing node directly; Dequeue unlinks the dummy's successor
// and that successor becomes the new dummy.
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
	hp   *smr.HPDomain
}

// NewQueue creates an empty queue reclaimed through hp.
func NewQueue[T any](hp *smr.HPDomain) *Queue[T] {
	dummy := &node[T]{}
	q := &Queue[T]{hp: hp}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Enqueue appends v. It never blocks and never fails: the queue is
// unbounded, limited only by available memory.
func (q *Queue[T]) Enqueue(v T) {
	n := &node[T]{value: v}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if next == nil {
			if tail.next.CompareAndSwap(nil, n) {
				// Help pointer advance regardless of whether we win;
				// a lagging tail is corrected by the next producer too.
				q.tail.CompareAndSwap(tail, n)
				return
			}
		} else {
			// Another producer already linked a node past tail but
			// has not yet advanced tail itself; help it along.
			q.tail.CompareAndSwap(tail, next)
		}
	}
}

// Dequeue removes and returns the oldest element. Returns false if the
// queue was empty at the moment of the attempt. h must belong to the
// same [smr.HPDomain] passed to NewQueue.
func (q *Queue[T]) Dequeue(h *smr.HPHandle) (T, bool) {
	var zero T
	for {
		head := q.head.Load()
		h.Protect(0, unsafe.Pointer(head))
		if q.head.Load() != head {
			continue
		}

		tail := q.tail.Load()
		next := head.next.Load()
		h.Protect(1, unsafe.Pointer(next))
		if q.head.Load() != head {
			continue
		}

		if next == nil {
			// Dummy has no successor: queue is empty.
			h.Clear(0)
			h.Clear(1)
			return zero, false
		}

		if head == tail {
			// Tail has fallen behind a linked-in node; help it catch
			// up before retrying the dequeue.
			q.tail.CompareAndSwap(tail, next)
			continue
		}

		v := next.value
		if q.head.CompareAndSwap(head, next) {
			h.Clear(0)
			h.Clear(1)
			oldHead := head
			h.Retire(unsafe.Pointer(oldHead), func(unsafe.Pointer) {
				// Nothing to release explicitly: the node becomes
				// collectible once no hazard slot (and this retire
				// closure's own capture) holds it, which the scan
				// already guarantees before calling here. The closure
				// exists so retirement still goes through the domain's
				// scan-before-free protocol rather than being left to
				// an ordinary GC root, even though Go's GC would
				// eventually reclaim the node regardless.
			})
			return v, true
		}
	}
}
