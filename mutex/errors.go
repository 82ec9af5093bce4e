// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mutex

import "errors"

// ErrNotLocked is returned by Unlock when the mutex is not currently
// held by any caller — either it was never locked, or it was already
// unlocked by a prior call. The three-state word carries no owner
// identity, so the two cases are not distinguishable and are reported
// identically rather than panicking the caller's process.
// [PIMutex.Unlock] also returns it when the mutex is held under a
// different id.
var ErrNotLocked = errors.New("mutex: unlock of mutex not locked")
