// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package smr

import (
	"sync"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/conc/pool"
)

// QSBRDomain is a quiescent-state-based reclamation context.
//
// A global epoch advances only when every registered thread has
// observed the current epoch by calling Quiescent. An object retired
// in epoch E is freed once every thread has observed an epoch >= E+1.
type QSBRDomain struct {
	epoch       atomix.Uint64
	threadIdx   *pool.Pool
	observed    []atomix.Uint64
	maxThreads  int
	mu          sync.Mutex // guards the two deferred-free lists; taken by Retire and by epoch advance
	toFree1     []retiredItem
	toFree2     []retiredItem
	usingFirst  bool
}

// NewQSBRDomain creates a QSBR domain supporting up to maxThreads
// concurrent registered threads.
func NewQSBRDomain(maxThreads int) *QSBRDomain {
	if maxThreads < 1 {
		panic("smr: maxThreads must be >= 1")
	}
	d := &QSBRDomain{
		threadIdx:  pool.New(maxThreads),
		observed:   make([]atomix.Uint64, maxThreads),
		maxThreads: maxThreads,
		usingFirst: true,
	}
	// A slot with no registered thread never holds back the epoch.
	for i := range d.observed {
		d.observed[i].StoreRelaxed(^uint64(0))
	}
	return d
}

// QSBRHandle is a per-thread handle into a [QSBRDomain].
type QSBRHandle struct {
	domain    *QSBRDomain
	threadIdx int
}

// RegisterThread allocates a per-thread epoch-observation slot.
// Returns ErrWouldBlock if the domain's thread capacity is exhausted.
func (d *QSBRDomain) RegisterThread() (*QSBRHandle, error) {
	idx, err := d.threadIdx.Acquire()
	if err != nil {
		return nil, err
	}
	d.observed[idx].StoreRelease(d.epoch.LoadAcquire())
	return &QSBRHandle{domain: d, threadIdx: idx}, nil
}

// Quiescent announces that the calling thread currently holds no
// references into the structures this domain protects. The first
// thread to observe every registered thread past the current epoch
// drains the oldest deferred-free list and advances the epoch.
func (h *QSBRHandle) Quiescent() {
	d := h.domain
	d.observed[h.threadIdx].StoreRelease(d.epoch.LoadAcquire())

	cur := d.epoch.LoadAcquire()
	for i := range d.observed {
		if d.observed[i].LoadAcquire() < cur {
			return // not every thread has caught up yet
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	// Re-check under the lock: another thread may have already
	// advanced the epoch between our lock-free check above and here.
	if d.epoch.LoadAcquire() != cur {
		return
	}
	// The list not currently receiving retirements holds the previous
	// epoch's objects, and every thread has observed cur since then, so
	// it is the one drained. It then receives epoch cur+1's retirements.
	var drain []retiredItem
	if d.usingFirst {
		drain, d.toFree2 = d.toFree2, nil
	} else {
		drain, d.toFree1 = d.toFree1, nil
	}
	d.usingFirst = !d.usingFirst
	d.epoch.AddAcqRel(1)

	for _, r := range drain {
		r.deleter(r.ptr)
	}
}

// Retire defers ptr for deletion via deleter until the current grace
// period completes.
func (h *QSBRHandle) Retire(ptr unsafe.Pointer, deleter func(unsafe.Pointer)) {
	d := h.domain
	d.mu.Lock()
	defer d.mu.Unlock()
	item := retiredItem{ptr: ptr, deleter: deleter}
	if d.usingFirst {
		d.toFree1 = append(d.toFree1, item)
	} else {
		d.toFree2 = append(d.toFree2, item)
	}
}

// Shutdown frees every object remaining in either deferred-free list
// unconditionally. Callers must guarantee no handle is still
// registered before calling Shutdown; it is meant for deterministic
// teardown in tests and process exit, not for use while the domain is
// live.
func (d *QSBRDomain) Shutdown() {
	d.mu.Lock()
	drain := append(d.toFree1, d.toFree2...)
	d.toFree1, d.toFree2 = nil, nil
	d.mu.Unlock()
	for _, r := range drain {
		r.deleter(r.ptr)
	}
}

// Release unregisters the calling thread, freeing its epoch-
// observation slot for reuse. A released thread's last-observed epoch
// is treated as caught-up so it never blocks the domain's grace
// period from advancing.
func (h *QSBRHandle) Release() {
	h.domain.observed[h.threadIdx].StoreRelease(^uint64(0))
	h.domain.threadIdx.Release(h.threadIdx)
}
