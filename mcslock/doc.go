// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mcslock provides the Mahmoud, Craig, Scott queue lock: each
// waiter spins only on a field of its own stack-allocated node rather
// than on shared lock state, which keeps contention off a single
// cache line the way code.hybscloud.com/conc/mutex's spin-then-park
// word cannot when many goroutines pile up on it.
//
// Example:
//
//	var l mcslock.Lock
//	var n mcslock.Node
//	l.Acquire(&n)
//	defer l.Release(&n)
package mcslock
