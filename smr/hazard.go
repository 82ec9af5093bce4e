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

// HPDomain is a hazard-pointer reclamation context.
//
// Each registered thread owns slotsPerThread hazard slots. A reader
// protects a pointer by storing it into one of its slots before
// dereferencing it; a retiring thread only frees a pointer once a scan
// of every slot in the domain shows nothing references it.
type HPDomain struct {
	hazards        [][]atomix.Uintptr // [threadIdx][slot]
	slotIdx        *pool.Pool
	slotsPerThread int
	scanThreshold  int

	orphanMu   sync.Mutex // guards orphanList below; thread-exit path only
	orphanList []retiredItem
}

// NewHPDomain creates a hazard-pointer domain supporting up to
// maxThreads concurrent registered readers, each with slotsPerThread
// hazard slots.
func NewHPDomain(maxThreads, slotsPerThread int) *HPDomain {
	if maxThreads < 1 || slotsPerThread < 1 {
		panic("smr: maxThreads and slotsPerThread must be >= 1")
	}
	d := &HPDomain{
		hazards:        make([][]atomix.Uintptr, maxThreads),
		slotIdx:        pool.New(maxThreads),
		slotsPerThread: slotsPerThread,
		scanThreshold:  maxThreads * slotsPerThread,
	}
	for i := range d.hazards {
		d.hazards[i] = make([]atomix.Uintptr, slotsPerThread)
	}
	return d
}

// HPHandle is a per-thread handle into an [HPDomain], returned by
// RegisterThread. It is not safe for concurrent use by more than one
// goroutine.
type HPHandle struct {
	domain    *HPDomain
	threadIdx int
	retired   []retiredItem
}

type retiredItem struct {
	ptr     unsafe.Pointer
	deleter func(unsafe.Pointer)
}

// RegisterThread allocates a hazard-slot set for the calling
// goroutine. Returns ErrWouldBlock if the domain's thread capacity is
// exhausted.
func (d *HPDomain) RegisterThread() (*HPHandle, error) {
	idx, err := d.slotIdx.Acquire()
	if err != nil {
		return nil, err
	}
	return &HPHandle{domain: d, threadIdx: idx}, nil
}

// Protect publishes ptr into hazard slot `slot` and returns it.
// Callers must re-read the shared location after Protect and retry
// from the top if it has changed; only then is the pointer safe to
// dereference.
func (h *HPHandle) Protect(slot int, ptr unsafe.Pointer) unsafe.Pointer {
	h.domain.hazards[h.threadIdx][slot].StoreRelease(uintptr(ptr))
	return ptr
}

// Clear releases hazard slot `slot`, permitting reclamation of
// whatever it last protected.
func (h *HPHandle) Clear(slot int) {
	h.domain.hazards[h.threadIdx][slot].StoreRelease(0)
}

// Retire schedules ptr for deletion via deleter once no hazard slot in
// the domain references it. The check (and free) may happen
// synchronously within this call once the retire list crosses the
// domain's scan threshold.
func (h *HPHandle) Retire(ptr unsafe.Pointer, deleter func(unsafe.Pointer)) {
	h.retired = append(h.retired, retiredItem{ptr: ptr, deleter: deleter})
	if len(h.retired) >= h.domain.scanThreshold {
		h.scan()
	}
}

// scan frees every retired pointer not currently present in any hazard
// slot across the whole domain, and keeps the rest for a later pass.
func (h *HPHandle) scan() {
	protected := make(map[uintptr]struct{}, h.domain.scanThreshold)
	for _, slots := range h.domain.hazards {
		for i := range slots {
			if p := slots[i].LoadAcquire(); p != 0 {
				protected[p] = struct{}{}
			}
		}
	}

	kept := h.retired[:0]
	for _, r := range h.retired {
		if _, live := protected[uintptr(r.ptr)]; live {
			kept = append(kept, r)
		} else {
			r.deleter(r.ptr)
		}
	}
	h.retired = kept
}

// Flush runs a reclamation scan immediately, regardless of how many
// retirements are pending. Useful when the caller must drive a
// deferred deleter to completion, e.g. a table swap whose old
// generation is being waited out.
func (h *HPHandle) Flush() {
	h.scan()
}

// Release clears this handle's hazard slots, makes a final reclaim
// pass, hands any still-protected retirements to the domain-wide
// orphan list for a future handle's scan to pick up, and frees the
// thread-slot index for reuse.
func (h *HPHandle) Release() {
	for i := range h.domain.hazards[h.threadIdx] {
		h.domain.hazards[h.threadIdx][i].StoreRelease(0)
	}
	h.scan()
	if len(h.retired) > 0 {
		h.domain.orphanMu.Lock()
		h.domain.orphanList = append(h.domain.orphanList, h.retired...)
		h.domain.orphanMu.Unlock()
		h.retired = nil
	}
	h.domain.slotIdx.Release(h.threadIdx)
}

// Shutdown frees every pointer left in the domain's orphan list
// unconditionally, without a hazard scan. Callers must guarantee no
// handle is still registered and no reader still holds a reference
// before calling Shutdown; it is meant for deterministic teardown in
// tests and process exit, not for use while the domain is live.
func (d *HPDomain) Shutdown() {
	d.orphanMu.Lock()
	drain := d.orphanList
	d.orphanList = nil
	d.orphanMu.Unlock()
	for _, r := range drain {
		r.deleter(r.ptr)
	}
}

// AdoptOrphans lets an active handle claim retirements left behind by
// threads that released while those pointers were still protected
// elsewhere, folding them into its own retire list for the next scan.
func (h *HPHandle) AdoptOrphans() {
	d := h.domain
	d.orphanMu.Lock()
	if len(d.orphanList) == 0 {
		d.orphanMu.Unlock()
		return
	}
	adopted := d.orphanList
	d.orphanList = nil
	d.orphanMu.Unlock()
	h.retired = append(h.retired, adopted...)
}
