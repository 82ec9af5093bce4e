// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cmap

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/conc/smr"
	"code.hybscloud.com/spin"
)

// Node is an intrusive chain link. Callers embed one per record (or
// use [Entry] to pair a node with a payload) and pass its address to
// Insert/Remove; the map never owns the record, it only links it.
//
// chain links use sync/atomic.Pointer rather than atomix: atomix has
// no generic atomic-pointer type, and an integer atomic would hide
// the node from the garbage collector while a reader still traverses
// it.
type Node struct {
	next  atomic.Pointer[Node]
	entry unsafe.Pointer // back-reference to the enclosing Entry, nil for bare nodes
	hash  uint32
}

// Hash returns the hash stamped by the Insert that linked this node.
func (n *Node) Hash() uint32 {
	return n.hash
}

// body is one generation of the table. The map handle swaps bodies
// wholesale on expansion; a body is never resized in place.
type body struct {
	buckets []atomic.Pointer[Node]
	mask    uint32
	count   atomix.Int64
	used    atomix.Int64 // buckets that have held at least one node
	fence   atomix.Bool  // raised while this body awaits its rehash
}

func newBody(buckets int) *body {
	return &body{
		buckets: make([]atomic.Pointer[Node], buckets),
		mask:    uint32(buckets - 1),
	}
}

// Map is a hash map for any number of concurrent readers and exactly
// one writer at a time. The writer precondition is documented, not
// enforced.
type Map struct {
	handle atomic.Pointer[body]
	hp     *smr.HPDomain
	wh     *smr.HPHandle // writer's handle; used to retire replaced bodies
}

// NewMap creates a map with the given initial bucket count (rounded
// up to a power of two), bound to hp for body reclamation. NewMap
// registers one thread with hp on behalf of the writer; size domains
// accordingly. Panics if buckets < 1.
func NewMap(hp *smr.HPDomain, buckets int) *Map {
	if buckets < 1 {
		panic("cmap: buckets must be >= 1")
	}
	wh, err := hp.RegisterThread()
	if err != nil {
		panic("cmap: hazard domain exhausted at construction")
	}
	m := &Map{hp: hp, wh: wh}
	m.handle.Store(newBody(roundToPow2(buckets)))
	return m
}

func roundToPow2(n int) int {
	if n < 2 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// Len returns the number of nodes currently linked into the map.
func (m *Map) Len() int {
	return int(m.handle.Load().count.LoadRelaxed())
}

// Buckets returns the current body's bucket count.
func (m *Map) Buckets() int {
	return len(m.handle.Load().buckets)
}

// Close unregisters the writer's hazard handle. The map must not be
// used after Close.
func (m *Map) Close() {
	m.wh.Release()
}

// Insert stamps hash into n and links it at the head of its bucket.
// Writer-side: must not run concurrently with another Insert or
// Remove. Triggers an expansion once the node count exceeds twice the
// bucket count; Insert returns only after the expansion's rehash has
// completed, so a subsequent Remove always finds its node.
func (m *Map) Insert(n *Node, hash uint32) {
	b := m.handle.Load()
	n.hash = hash
	bucket := &b.buckets[hash&b.mask]
	head := bucket.Load()
	n.next.Store(head)
	bucket.Store(n)
	if head == nil {
		b.used.AddAcqRel(1)
	}
	if b.count.AddAcqRel(1) > 2*int64(len(b.buckets)) {
		m.expand(b)
	}
}

// Remove unlinks n from its chain. Writer-side. Reports whether the
// node was found; false means n was never inserted (or already
// removed), which is a caller bug but reported rather than trapped.
func (m *Map) Remove(n *Node) bool {
	b := m.handle.Load()
	bucket := &b.buckets[n.hash&b.mask]
	head := bucket.Load()
	if head == n {
		bucket.Store(n.next.Load())
		b.count.AddAcqRel(-1)
		return true
	}
	for prev := head; prev != nil; prev = prev.next.Load() {
		if prev.next.Load() == n {
			prev.next.Store(n.next.Load())
			b.count.AddAcqRel(-1)
			return true
		}
	}
	return false
}

// expand publishes a doubled body and rehashes old into it.
//
// Protocol: raise the new body's fence, publish it so fresh inserts
// and new readers land on it (readers park on the fence), then retire
// the old body through the hazard domain with a deleter that performs
// the rehash and lowers the fence. The deleter runs only once no
// hazard slot references old, i.e. after the last reader of the old
// generation has released — which is exactly when mutating the old
// nodes' chain links becomes safe. The writer drives reclamation scans
// until that happens, so expansion also serializes against itself: a
// second expansion cannot begin while the previous fence is up.
func (m *Map) expand(old *body) {
	nb := newBody(2 * len(old.buckets))
	nb.fence.StoreRelease(true)
	nb.count.StoreRelaxed(old.count.LoadRelaxed())
	m.handle.Store(nb)

	m.wh.Retire(unsafe.Pointer(old), func(p unsafe.Pointer) {
		m.rehash((*body)(p), nb)
		nb.fence.StoreRelease(false)
	})

	sw := spin.Wait{}
	for nb.fence.LoadAcquire() {
		m.wh.Flush()
		sw.Once()
	}
}

// rehash relinks every node of old into nb. Runs with no concurrent
// reader of old (hazard scan proved it) and no concurrent writer
// (expand blocks the writer until the fence drops).
func (m *Map) rehash(old, nb *body) {
	for i := range old.buckets {
		n := old.buckets[i].Load()
		for n != nil {
			next := n.next.Load()
			bucket := &nb.buckets[n.hash&nb.mask]
			head := bucket.Load()
			n.next.Store(head)
			bucket.Store(n)
			if head == nil {
				nb.used.AddAcqRel(1)
			}
			n = next
		}
	}
}

// ReadToken pins one table body for the duration of a read-side
// critical section. Obtained from [Map.Acquire], dropped with
// [ReadToken.Release]. A token occupies hazard slot 0 of its handle.
type ReadToken struct {
	h    *smr.HPHandle
	body *body
}

// Acquire pins the map's current body and returns a token for
// traversing it. h must be registered with the domain the map was
// built on; the token holds h's hazard slot 0 until Release. If an
// expansion is mid-flight, Acquire waits for the rehash to complete
// rather than exposing a partially filled body.
func (m *Map) Acquire(h *smr.HPHandle) *ReadToken {
	sw := spin.Wait{}
	for {
		b := m.handle.Load()
		h.Protect(0, unsafe.Pointer(b))
		if m.handle.Load() != b {
			continue
		}
		for b.fence.LoadAcquire() {
			sw.Once()
		}
		return &ReadToken{h: h, body: b}
	}
}

// Release drops the token, permitting reclamation of the pinned body.
func (t *ReadToken) Release() {
	t.h.Clear(0)
	t.body = nil
}

// Find positions a cursor at the head of hash's bucket chain. The
// cursor is only valid until the token is released.
func (t *ReadToken) Find(hash uint32) *Cursor {
	return &Cursor{
		node: t.body.buckets[hash&t.body.mask].Load(),
		hash: hash,
	}
}

// Cursor walks one bucket chain, yielding the nodes whose stamped
// hash matches the Find argument.
type Cursor struct {
	node *Node
	hash uint32
}

// Next returns the next matching node in the chain, or false when the
// chain is exhausted.
func (c *Cursor) Next() (*Node, bool) {
	for n := c.node; n != nil; n = n.next.Load() {
		if n.hash == c.hash {
			c.node = n.next.Load()
			return n, true
		}
	}
	c.node = nil
	return nil, false
}
