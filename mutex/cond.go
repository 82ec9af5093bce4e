// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mutex

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Cond is a condition variable associated with a [Mutex], mirroring
// the sequence-counter design in the reference implementation: Wait
// snapshots the sequence before releasing the caller's mutex, then
// blocks until the sequence changes.
type Cond struct {
	seq atomix.Int32
}

// Wait releases m, blocks until Signal or Broadcast is observed, then
// reacquires m before returning.
func (c *Cond) Wait(m *Mutex) {
	seq := c.seq.LoadAcquire()
	m.Unlock()

	sw := spin.Wait{}
	for i := 0; i < mutexSpins; i++ {
		if c.seq.LoadAcquire() != seq {
			m.Lock()
			return
		}
		sw.Once()
	}

	for c.seq.LoadAcquire() == seq {
		futexWait(&c.seq, seq)
	}
	m.Lock()
}

// WaitTimeout is Wait with a bound: it returns false if d elapsed
// before a Signal or Broadcast was observed. The mutex is reacquired
// before returning either way.
func (c *Cond) WaitTimeout(m *Mutex, d time.Duration) bool {
	seq := c.seq.LoadAcquire()
	m.Unlock()
	deadline := time.Now().Add(d)

	sw := spin.Wait{}
	for i := 0; i < mutexSpins; i++ {
		if c.seq.LoadAcquire() != seq {
			m.Lock()
			return true
		}
		sw.Once()
	}

	signaled := true
	for c.seq.LoadAcquire() == seq {
		remain := time.Until(deadline)
		if remain <= 0 {
			signaled = c.seq.LoadAcquire() != seq
			break
		}
		futexWaitTimeout(&c.seq, seq, remain)
	}
	m.Lock()
	return signaled
}

// Signal wakes one goroutine waiting on c, if any.
func (c *Cond) Signal() {
	c.seq.AddAcqRel(1)
	futexWake(&c.seq, 1)
}

// Broadcast wakes every goroutine waiting on c.
func (c *Cond) Broadcast() {
	c.seq.AddAcqRel(1)
	futexWake(&c.seq, maxWaiters)
}

const maxWaiters = 1 << 30
