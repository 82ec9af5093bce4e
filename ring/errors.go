// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately:
// the ring is full on enqueue or empty on dequeue. It is a control
// flow signal, not a failure; callers retry with backoff rather than
// propagating it. This is an alias for [iox.ErrWouldBlock] for
// ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrContention is returned by the Try variants when a concurrent
// producer or consumer won the cell first. Unlike ErrWouldBlock it
// says nothing about the ring being full or empty — the very next
// attempt may succeed. Enqueue/Dequeue never return it; they retry
// internally.
var ErrContention = errors.New("ring: lost race to a concurrent producer or consumer")

// IsWouldBlock reports whether err indicates the operation would
// block. Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a
// failure). Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure
// condition. Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
