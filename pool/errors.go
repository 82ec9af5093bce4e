// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pool

import "code.hybscloud.com/iox"

// ErrWouldBlock indicates Acquire could not proceed because the pool
// is exhausted. This is an alias for [iox.ErrWouldBlock] for ecosystem
// consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the pool was exhausted.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
