// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package deque

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the deque was empty at the moment of the
// attempt. This is an alias for [iox.ErrWouldBlock] for ecosystem
// consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrContention indicates a Steal lost its CAS to a concurrent thief
// or to the owner taking the last element. The deque was not
// necessarily empty; the caller chooses whether to retry here or move
// to another victim.
var ErrContention = errors.New("deque: lost steal race")

// IsWouldBlock reports whether err indicates an empty deque.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
