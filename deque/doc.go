// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package deque provides a Chase–Lev work-stealing deque: one owner
// pushes and takes at the bottom, any number of thieves steal from
// the top.
//
// Take and Steal race on the last remaining element; a Take that
// loses observes empty. A Steal that loses its CAS, to the owner or
// to another thief, observes [ErrContention] and should simply retry
// or move to another victim — the package never retries on the
// caller's behalf.
//
// The backing array doubles when full. Old arrays are deliberately
// not recycled: a thief may still be reading from one, and letting
// the garbage collector reclaim them once the last thief moves on is
// the whole point of running this algorithm in a collected language.
//
// Example:
//
//	d := deque.New[func()](64)
//	d.Push(task)           // owner
//	v, err := d.Take()     // owner
//	v, err = d.Steal()     // any thief
package deque
