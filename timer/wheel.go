// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package timer

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/conc/pool"
)

// invalidTick marks an inactive timer slot.
const invalidTick = ^uint64(0)

type timerSlot struct {
	cb func(tmo uint64)
}

// Wheel is a flat-array timer wheel of a fixed number of slots.
// Allocation and (re)arming are safe from any number of goroutines;
// Expire must be driven by exactly one goroutine at a time.
type Wheel struct {
	earliest    atomix.Uint64
	current     atomix.Uint64
	hiWatermark atomix.Uint64
	expirations []atomix.Uint64
	slots       []timerSlot
	free        *pool.Pool
}

// New creates a wheel with max timer slots. Panics if max < 1.
func New(max int) *Wheel {
	w := &Wheel{
		expirations: make([]atomix.Uint64, max),
		slots:       make([]timerSlot, max),
		free:        pool.New(max),
	}
	w.earliest.StoreRelaxed(invalidTick)
	for i := range w.expirations {
		w.expirations[i].StoreRelaxed(invalidTick)
	}
	return w
}

// Alloc reserves a timer slot, inactive until Set. Returns
// ErrWouldBlock if every slot is in use.
func (w *Wheel) Alloc() (int, error) {
	idx, err := w.free.Acquire()
	if err != nil {
		return 0, err
	}
	w.expirations[idx].StoreRelease(invalidTick)
	w.slots[idx] = timerSlot{}

	for {
		hw := w.hiWatermark.LoadAcquire()
		if uint64(idx+1) <= hw {
			break
		}
		if w.hiWatermark.CompareAndSwapAcqRel(hw, uint64(idx+1)) {
			break
		}
	}
	return idx, nil
}

// Free releases an allocated, inactive timer slot back to the wheel.
// Panics if the timer is still active: destroying an active timer is
// a programmer error, not a reportable condition.
func (w *Wheel) Free(id int) {
	if w.expirations[id].LoadAcquire() != invalidTick {
		panic("timer: destroying an active timer")
	}
	w.free.Release(id)
}

// Set arms an inactive timer to fire at tick exp, invoking cb on
// Expire. Returns ErrActive if the timer is already armed.
func (w *Wheel) Set(id int, exp uint64, cb func(tmo uint64)) error {
	if exp == invalidTick {
		panic("timer: invalid expiration value")
	}
	if w.expirations[id].LoadAcquire() != invalidTick {
		return ErrActive
	}
	// The callback must be in place before the CAS below activates the
	// slot: Expire reads it only after winning the deactivating CAS, so
	// the expiration word carries the release/acquire edge for cb.
	w.slots[id].cb = cb
	if !w.expirations[id].CompareAndSwapAcqRel(invalidTick, exp) {
		return ErrActive
	}
	w.updateEarliest(exp)
	return nil
}

// Reset rearms an already-active timer to fire at tick exp. Returns
// ErrInactive if the timer is not currently active.
func (w *Wheel) Reset(id int, exp uint64) error {
	if exp == invalidTick {
		panic("timer: invalid expiration value")
	}
	for {
		old := w.expirations[id].LoadRelaxed()
		if old == invalidTick {
			return ErrInactive
		}
		if w.expirations[id].CompareAndSwapAcqRel(old, exp) {
			w.updateEarliest(exp)
			return nil
		}
	}
}

// Cancel deactivates timer id if it is currently active; a no-op if
// it is not.
func (w *Wheel) Cancel(id int) {
	for {
		old := w.expirations[id].LoadRelaxed()
		if old == invalidTick {
			return
		}
		if w.expirations[id].CompareAndSwapAcqRel(old, invalidTick) {
			return
		}
	}
}

// Tick returns the wheel's current tick.
func (w *Wheel) Tick() uint64 {
	return w.current.LoadRelaxed()
}

// SetTick advances the wheel's current tick. Time cannot run
// backwards: a tck <= the current value is ignored.
func (w *Wheel) SetTick(tck uint64) {
	for {
		old := w.current.LoadRelaxed()
		if tck <= old {
			return
		}
		if w.current.CompareAndSwapRelaxed(old, tck) {
			return
		}
	}
}

// Expire scans every allocated slot, firing (and deactivating) any
// timer whose expiration is <= current. Must not be called
// concurrently with itself.
func (w *Wheel) Expire(current uint64) {
	earliest := w.earliest.LoadRelaxed()
	if earliest > current {
		return
	}

	w.earliest.StoreRelaxed(invalidTick)

	hw := w.hiWatermark.LoadAcquire()
	newEarliest := invalidTick
	for i := uint64(0); i < hw; i++ {
		exp := w.expirations[i].LoadRelaxed()
		if exp > current {
			if exp < newEarliest {
				newEarliest = exp
			}
			continue
		}
		if !w.expirations[i].CompareAndSwapAcqRel(exp, invalidTick) {
			// Reset or cancelled concurrently since our load; the
			// thread that won already folded its own value into
			// earliest via updateEarliest.
			continue
		}
		if cb := w.slots[i].cb; cb != nil {
			cb(exp)
		}
	}

	w.updateEarliest(newEarliest)
}

// updateEarliest performs an atomic fetch-min over w.earliest.
func (w *Wheel) updateEarliest(exp uint64) {
	if exp == invalidTick {
		return
	}
	for {
		old := w.earliest.LoadRelaxed()
		if exp >= old {
			return
		}
		if w.earliest.CompareAndSwapRelaxed(old, exp) {
			return
		}
	}
}
