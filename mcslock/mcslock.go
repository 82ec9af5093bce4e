// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mcslock

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Node is a queue node a caller supplies to Acquire/Release. It must
// not be reused concurrently for two overlapping critical sections,
// and is typically stack-allocated (one per goroutine per acquisition).
type Node struct {
	next atomic.Pointer[Node] // GC-safe link; see queue package for why atomix has no equivalent
	wait atomix.Bool
}

// Lock is an MCS queue lock. The zero value is an unlocked Lock.
type Lock struct {
	tail atomic.Pointer[Node]
}

// Acquire enters the critical section, blocking until it is this
// node's turn. node's fields are reset by Acquire; the caller need not
// initialize them.
func (l *Lock) Acquire(node *Node) {
	node.next.Store(nil)
	node.wait.StoreRelease(false)

	prev := l.tail.Swap(node)
	if prev == nil {
		// Uncontended: we are the only node in line.
		return
	}

	node.wait.StoreRelease(true)
	prev.next.Store(node)

	sw := spin.Wait{}
	for node.wait.LoadAcquire() {
		sw.Once()
	}
}

// Release leaves the critical section entered with the matching
// Acquire(node) call, signaling the next waiter if one has linked in.
func (l *Lock) Release(node *Node) {
	if next := node.next.Load(); next == nil {
		if l.tail.CompareAndSwap(node, nil) {
			// No one was waiting.
			return
		}
		// A successor is mid-Acquire: it has exchanged itself into
		// tail but has not yet linked node.next. Spin until it does.
		sw := spin.Wait{}
		for node.next.Load() == nil {
			sw.Once()
		}
	}
	node.next.Load().wait.StoreRelease(false)
}
