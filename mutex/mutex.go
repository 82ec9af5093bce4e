// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mutex

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

const (
	unlocked      int32 = 0
	locked        int32 = 1 << 0
	lockedWaiters int32 = locked | 1<<1
	mutexSpins          = 128
)

// Mutex is a three-state mutual-exclusion lock: unlocked, locked, or
// locked-with-waiters. A brief spin precedes parking a contended
// caller via the platform park/unpark primitive (futexWait/futexWake).
//
// The zero value is an unlocked Mutex, ready to use.
type Mutex struct {
	state atomix.Int32
}

// TryLock acquires the mutex without blocking, reporting whether it
// succeeded.
func (m *Mutex) TryLock() bool {
	return m.state.CompareAndSwapAcqRel(unlocked, locked)
}

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock() {
	sw := spin.Wait{}
	for i := 0; i < mutexSpins; i++ {
		if m.TryLock() {
			return
		}
		sw.Once()
	}

	for {
		// Mark (or keep marked) that a waiter exists, then sleep if
		// the mutex is still held by someone else.
		prev := exchange(&m.state, lockedWaiters)
		if prev == unlocked {
			return
		}
		futexWait(&m.state, lockedWaiters)
	}
}

// Unlock releases the mutex, waking one waiter if any are parked.
// Returns [ErrNotLocked] if the mutex was not currently locked.
func (m *Mutex) Unlock() error {
	prev := exchange(&m.state, unlocked)
	if prev == unlocked {
		return ErrNotLocked
	}
	if prev == lockedWaiters {
		futexWake(&m.state, 1)
	}
	return nil
}

// exchange atomically stores newVal into w and returns the previous
// value, built from the CAS primitive atomix exposes (no dedicated
// exchange/swap operation is part of its surface).
func exchange(w *atomix.Int32, newVal int32) int32 {
	for {
		old := w.LoadAcquire()
		if w.CompareAndSwapAcqRel(old, newVal) {
			return old
		}
	}
}
