// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package timer provides a flat-array timer wheel: allocate, set,
// reset, and cancel run from any number of goroutines; a single
// sweep ("Expire") scans the whole array once per tick and invokes
// the callback of every timer due.
//
// Expire is not safe to call concurrently with itself — exactly one
// goroutine drives the sweep, a precondition callers must uphold
// rather than one this package enforces.
//
// Example:
//
//	w := timer.New(1024)
//	id, _ := w.Alloc()
//	w.Set(id, 10, func(tmo uint64) { fmt.Println("fired at", tmo) })
//	w.Expire(10)
package timer
