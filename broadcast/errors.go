// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadcast

import "code.hybscloud.com/iox"

// ErrWouldBlock is returned by Publish when the backing message arena
// is exhausted. Unlike a full ring (which cannot happen here — the
// ring always makes room by dropping the oldest message), the arena
// itself is finite and a burst of publishers can race it empty.
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock
