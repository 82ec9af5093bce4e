// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mutex

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// PIMutex is a priority-inheritance mutex variant: its state word
// holds the id of the owning goroutine (supplied by the caller, since
// Go assigns no stable thread/goroutine id a library can read) rather
// than a generic locked bit, mirroring futex_lock_pi/futex_unlock_pi's
// owner-tid protocol.
//
// Go's scheduler does not expose priority levels to user code, so the
// "inheritance" here is best-effort: after a brief spin, a contended
// Lock parks on the owner word until the holder unlocks, leaving the
// processor to the lock holder rather than to a busy-waiting
// contender, but it is not a kernel-enforced priority boost the way
// FUTEX_LOCK_PI provides on Linux.
type PIMutex struct {
	owner atomix.Int32 // 0 = unlocked, else holder's caller-supplied id
}

// TryLock attempts to acquire the mutex on behalf of id without
// blocking. id must be nonzero.
func (m *PIMutex) TryLock(id int32) bool {
	return m.owner.CompareAndSwapAcqRel(0, id)
}

// Lock blocks until the mutex is acquired on behalf of id.
func (m *PIMutex) Lock(id int32) {
	sw := spin.Wait{}
	for i := 0; i < mutexSpins; i++ {
		if m.TryLock(id) {
			return
		}
		sw.Once()
	}

	for {
		cur := m.owner.LoadAcquire()
		if cur == 0 {
			if m.TryLock(id) {
				return
			}
			continue
		}
		// Block only while the owner is still the same holder we just
		// observed, so an intervening Unlock is never missed.
		futexWait(&m.owner, cur)
	}
}

// Unlock releases the mutex. Returns [ErrNotLocked] if id does not
// currently hold it.
func (m *PIMutex) Unlock(id int32) error {
	if !m.owner.CompareAndSwapAcqRel(id, 0) {
		return ErrNotLocked
	}
	futexWake(&m.owner, 1)
	return nil
}
