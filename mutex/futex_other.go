// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package mutex

import (
	"sync"
	"time"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Non-Linux platforms have no kernel futex syscall, so parking uses a
// condvar-per-word table instead, exactly the fallback the design
// calls for. The table is sharded to keep unrelated mutexes from
// contending on one global lock.
const parkTableShards = 64

type parkEntry struct {
	mu   sync.Mutex
	cond *sync.Cond
}

var parkTable [parkTableShards]parkEntry

func init() {
	for i := range parkTable {
		parkTable[i].cond = sync.NewCond(&parkTable[i].mu)
	}
}

func parkShard(addr *atomix.Int32) *parkEntry {
	h := uintptr(unsafe.Pointer(addr))
	return &parkTable[(h>>4)%parkTableShards]
}

// futexWait blocks while *addr still equals val. Because the shard's
// mutex is held both here and in futexWake, a wake that races ahead of
// this call has already updated addr before we re-check it under the
// lock, so no wakeup is ever lost.
func futexWait(addr *atomix.Int32, val int32) {
	s := parkShard(addr)
	s.mu.Lock()
	for addr.LoadAcquire() == val {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// futexWaitTimeout is futexWait with a relative timeout. sync.Cond
// has no timed wait, so a one-shot timer broadcasts the shard at the
// deadline and the loop re-checks wall time after every wake.
func futexWaitTimeout(addr *atomix.Int32, val int32, d time.Duration) bool {
	s := parkShard(addr)
	deadline := time.Now().Add(d)
	tm := time.AfterFunc(d, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer tm.Stop()

	s.mu.Lock()
	for addr.LoadAcquire() == val {
		if !time.Now().Before(deadline) {
			s.mu.Unlock()
			return false
		}
		s.cond.Wait()
	}
	s.mu.Unlock()
	return true
}

func futexWake(addr *atomix.Int32, limit int32) {
	s := parkShard(addr)
	s.mu.Lock()
	if limit <= 1 {
		s.cond.Signal()
	} else {
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}
