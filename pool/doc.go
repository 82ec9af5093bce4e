// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pool provides a fixed-capacity lock-free object pool.
//
// pool is the free-list component of code.hybscloud.com/conc. Elements
// are identified by index into a caller-owned (or pool-owned, via
// [Typed]) arena rather than by raw pointer, so references survive
// relocation-free resizes and remain valid across shared memory.
//
// The free list is a single 128-bit tagged reference (tag, head index)
// swapped with one atomic compare-and-swap per operation. Every Release
// stamps a strictly greater tag than any prior release of the same
// index, which is what makes the free list ABA-safe: a reused index
// is never mistaken for a continuously-free one.
//
// Example:
//
//	p := pool.New(1024)
//	idx, err := p.Acquire()
//	if err != nil {
//	    // pool.ErrWouldBlock: pool exhausted
//	}
//	defer p.Release(idx)
//
// [Typed] wraps an arena of T alongside the same free list so callers
// do not need to manage their own backing slice:
//
//	tp := pool.NewTyped[Message](1024)
//	idx, err := tp.Acquire()
//	msg := tp.Value(idx)
//	*msg = Message{...}
//	tp.Release(idx)
package pool
