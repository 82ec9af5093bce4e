// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package smr_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"code.hybscloud.com/conc/smr"
)

// TestHPDomainBasicProtect checks that Protect/Clear/Retire/Release do
// not panic or deadlock across a handle's ordinary lifecycle.
func TestHPDomainBasicProtect(t *testing.T) {
	dom := smr.NewHPDomain(4, 2)
	h, err := dom.RegisterThread()
	if err != nil {
		t.Fatalf("RegisterThread: %v", err)
	}
	defer h.Release()

	v := new(int)
	*v = 42
	p := unsafe.Pointer(v)

	h.Protect(0, p)
	h.Clear(0)
	h.Retire(p, func(unsafe.Pointer) {})
}

// TestHPDomainFreesUnprotected checks the reclamation invariant: a
// retired pointer not present in any hazard slot is eventually freed
// by a scan, and no deleter ever runs twice for the same pointer.
func TestHPDomainFreesUnprotected(t *testing.T) {
	dom := smr.NewHPDomain(8, 1)

	const n = 200
	var freedCount int64
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := dom.RegisterThread()
			if err != nil {
				return
			}
			defer h.Release()
			for i := 0; i < n; i++ {
				x := new(int64)
				*x = int64(i)
				h.Retire(unsafe.Pointer(x), func(unsafe.Pointer) {
					atomic.AddInt64(&freedCount, 1)
				})
			}
		}()
	}
	wg.Wait()

	// Drain any orphaned retirements left on threads that released
	// while a sibling still had the pointer protected.
	h, err := dom.RegisterThread()
	if err != nil {
		t.Fatalf("RegisterThread: %v", err)
	}
	h.AdoptOrphans()
	h.Retire(unsafe.Pointer(new(int)), func(unsafe.Pointer) {}) // forces a final scan
	h.Release()

	if freedCount != 8*n {
		t.Fatalf("freedCount=%d, want %d (every retirement freed exactly once)", freedCount, 8*n)
	}
}

// TestQSBRDomainGracePeriod checks that an object retired before every
// thread announces a quiescent state is not freed until they all do.
func TestQSBRDomainGracePeriod(t *testing.T) {
	dom := smr.NewQSBRDomain(2)
	h1, err := dom.RegisterThread()
	if err != nil {
		t.Fatalf("RegisterThread: %v", err)
	}
	h2, err := dom.RegisterThread()
	if err != nil {
		t.Fatalf("RegisterThread: %v", err)
	}
	defer h1.Release()
	defer h2.Release()

	var freed bool
	x := new(int)
	h1.Retire(unsafe.Pointer(x), func(unsafe.Pointer) { freed = true })

	h1.Quiescent()
	if freed {
		t.Fatalf("object freed before all threads reached quiescence")
	}
	h2.Quiescent()
	// The epoch has now advanced past the retire epoch on both
	// lists; one more full round drains the now-oldest list.
	h1.Quiescent()
	h2.Quiescent()
	if !freed {
		t.Fatalf("object not freed after full grace period")
	}
}

// TestQSBRDomainConcurrentRetire stresses Retire/Quiescent from many
// goroutines concurrently; intended to be run with -race.
func TestQSBRDomainConcurrentRetire(t *testing.T) {
	const workers = 8
	const perWorker = 500
	dom := smr.NewQSBRDomain(workers)

	var freedCount int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := dom.RegisterThread()
			if err != nil {
				return
			}
			defer h.Release()
			for i := 0; i < perWorker; i++ {
				x := new(int)
				*x = i
				h.Retire(unsafe.Pointer(x), func(unsafe.Pointer) {
					atomic.AddInt64(&freedCount, 1)
				})
				h.Quiescent()
			}
		}()
	}
	wg.Wait()
}
