// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides a bounded lock-free FIFO queue over a
// power-of-two cell array, with a per-cell sequence number deciding
// ownership: a producer may write cell i when its sequence equals the
// enqueue index, a consumer may read it when the sequence equals the
// index plus one, and consuming re-arms the cell one full lap ahead.
//
// Producer and consumer sides are independently declared single or
// multi at construction through the [Builder]; the algorithm is the
// same in all four combinations, only the index update degrades from
// a CAS to a plain store on a single side.
//
// Try variants distinguish a transient CAS loss ([ErrContention]) from
// a truly full or empty ring ([ErrWouldBlock]), so callers managing
// their own backoff can tell the two apart; Enqueue/Dequeue absorb
// contention internally and surface only full/empty.
//
// Example:
//
//	q := ring.Build[Event](ring.New(1024))
//	if err := q.Enqueue(ev); ring.IsWouldBlock(err) {
//	    // ring full: apply backpressure
//	}
//	ev, err := q.Dequeue()
package ring
