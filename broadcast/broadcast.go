// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadcast

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/conc/pool"
	"code.hybscloud.com/spin"
)

// emptyTag marks a slot that has never been published into.
const emptyTag = ^uint64(0)

// Buffer is a fixed-depth overwriting ring of tagged messages.
//
// Slots hold a (tag, arena-offset) pair: tag is the global publish
// index that last wrote the slot, and the offset addresses the
// message inside the backing arena. head <= tail always, and
// tail-head <= depth: once the ring is full, publishing forces the
// oldest live message out before writing the new one.
type Buffer[T any] struct {
	_     pad
	head  atomix.Uint64
	_     pad
	tail  atomix.Uint64
	_     pad
	slots []broadcastSlot
	arena *pool.Typed[T]
	depth uint64
	mask  uint64
}

type pad [64]byte

type broadcastSlot struct {
	entry atomix.Uint128 // lo=tag (publish index), hi=arena index + 1
	_     [64 - 16]byte
}

// New creates a broadcast buffer with the given depth (rounded up to
// the next power of two) and a message arena of twice the depth: the
// ring can hold depth live messages, and the extra headroom covers
// messages a publisher has displaced but not yet released plus
// in-flight acquisitions by concurrent publishers. Panics if
// depth < 1.
func New[T any](depth int) *Buffer[T] {
	if depth < 1 {
		panic("broadcast: depth must be >= 1")
	}
	d := uint64(roundToPow2(depth))
	b := &Buffer[T]{
		slots: make([]broadcastSlot, d),
		arena: pool.NewTyped[T](int(2 * d)),
		depth: d,
		mask:  d - 1,
	}
	for i := range b.slots {
		b.slots[i].entry.StoreRelaxed(emptyTag, 0)
	}
	return b
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

// Depth returns the buffer's slot count.
func (b *Buffer[T]) Depth() int {
	return int(b.depth)
}

// Publish appends msg to the ring, overwriting the oldest message if
// the ring is full.
//
// Returns ErrWouldBlock only if the backing message arena is
// momentarily exhausted by concurrent publishers. Exhaustion is
// reported to the caller, never retried internally.
func (b *Buffer[T]) Publish(msg *T) error {
	arenaIdx, err := b.arena.Acquire()
	if err != nil {
		return err
	}
	*b.arena.Value(arenaIdx) = *msg

	sw := spin.Wait{}
	for {
		tail := b.tail.LoadAcquire()
		head := b.head.LoadAcquire()
		slot := &b.slots[tail&b.mask]
		curTag, curVal := slot.entry.LoadAcquire()

		switch {
		case curTag != emptyTag && curTag == tail:
			// A previous publisher wrote this exact slot but has not
			// yet advanced tail. Help it along and retry.
			b.tail.CompareAndSwapAcqRel(tail, tail+1)
			sw.Once()
			continue

		case curTag != emptyTag && curTag > tail:
			// A concurrent publisher lapped us; re-read and retry.
			sw.Once()
			continue

		case curTag != emptyTag && head <= curTag:
			// Slot still holds a message a subscriber may read.
			// Evict the oldest message by bumping head one slot; the
			// pool element itself is released only once this slot is
			// actually overwritten below, so a subscriber mid-copy
			// never has the backing bytes reused out from under it
			// without its own post-copy tag recheck catching it.
			b.head.CompareAndSwapAcqRel(head, head+1)
			sw.Once()
			continue

		default:
			// Slot is empty or holds a fully-evicted stale message:
			// publish here.
			newHi := uint64(arenaIdx + 1)
			if ok := casSlot(&slot.entry, curTag, curVal, tail, newHi); ok {
				b.tail.CompareAndSwapAcqRel(tail, tail+1)
				if curTag != emptyTag {
					b.arena.Release(int(curVal - 1))
				}
				return nil
			}
			sw.Once()
		}
	}
}

func casSlot(e *atomix.Uint128, oldLo, oldHi, newLo, newHi uint64) bool {
	return e.CompareAndSwapAcqRel(oldLo, oldHi, newLo, newHi)
}

// Subscription is a reader's cursor into a [Buffer].
type Subscription[T any] struct {
	buf *Buffer[T]
	idx uint64
}

// Subscribe registers a reader starting from the oldest message
// currently available in the ring.
func (b *Buffer[T]) Subscribe() *Subscription[T] {
	return &Subscription[T]{buf: b, idx: b.head.LoadAcquire()}
}

// Next returns the next message, the number of messages dropped since
// the previous call (because they were overwritten before this
// subscriber reached them), and whether a message was available.
//
// A false ok with drops == 0 means the subscriber has simply caught up
// to the current tail; it is not itself a loss.
func (s *Subscription[T]) Next() (msg T, drops uint64, ok bool) {
	b := s.buf
	for {
		tail := b.tail.LoadAcquire()
		if s.idx >= tail {
			return msg, drops, false
		}

		slot := &b.slots[s.idx&b.mask]
		tag, val := slot.entry.LoadAcquire()
		if tag != s.idx {
			// Overwritten before we reached it.
			s.idx++
			drops++
			continue
		}

		candidate := *b.arena.Value(int(val - 1))

		// Re-read; if the slot changed mid-copy, the bytes we just
		// copied may be torn by a concurrent republish. Discard.
		tag2, val2 := slot.entry.LoadAcquire()
		if tag2 != tag || val2 != val {
			s.idx++
			drops++
			continue
		}

		s.idx++
		return candidate, drops, true
	}
}
