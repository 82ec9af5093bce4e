// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package timer

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock is returned by Alloc when the wheel's timer table is
// exhausted.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the timer table was
// exhausted.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// ErrActive is returned by Set when the timer is already active.
var ErrActive = errors.New("timer: already active")

// ErrInactive is returned by Reset when the timer is not active.
var ErrInactive = errors.New("timer: not active")
