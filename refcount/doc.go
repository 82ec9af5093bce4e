// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package refcount provides an atomically reference-counted box
// around an arbitrary payload.
//
// A box starts at count one. Ref takes another reference, Unref drops
// one; the Unref that drops the last reference poisons the box's
// magic cookie and zeroes the payload, so the collector can reclaim
// whatever the payload referenced and any later use of the stale box
// is caught instead of silently touching freed state.
//
// The cookie check runs in every Ref/Unref by default; builds that
// cannot afford the extra load compile it out with the
// "norefcountcheck" build tag.
//
// Example:
//
//	b := refcount.New(conn)
//	b2, _ := b.Ref()      // hand b2 to another goroutine
//	...
//	b2.Unref()
//	b.Unref()             // last drop: payload released
package refcount
