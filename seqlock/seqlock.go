// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqlock

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Seqlock protects a fixed-size payload T for writers, which exclude
// one another, and any number of concurrent readers. The zero value
// holds the zero value of T and is ready to use.
//
// The payload moves word by word through atomix.Uint64, never as a
// plain memory copy: a reader racing the writer reads stale or mixed
// words, not torn ones, and the sequence recheck discards the mix.
type Seqlock[T any] struct {
	seq     atomix.Uint64
	payload T
	_       [7]byte // the word copy may run past sizeof(T) to the next word boundary
}

// wordBuf stages a payload in word-aligned memory with the same
// trailing slack as the Seqlock itself.
type wordBuf[T any] struct {
	_ [0]uint64
	v T
	_ [7]byte
}

// Write stores v. Concurrent Write calls are serialized by the
// counter's odd mark; concurrent Read calls are always safe.
func (s *Seqlock[T]) Write(v T) {
	var src wordBuf[T]
	src.v = v

	// Wait while another writer holds the odd mark, then take it. The
	// CAS's acquire side keeps the word stores below from floating
	// above the odd mark.
	sw := spin.Wait{}
	seq := s.seq.LoadAcquire()
	for seq&1 != 0 || !s.seq.CompareAndSwapAcqRel(seq, seq+1) {
		sw.Once()
		seq = s.seq.LoadAcquire()
	}

	storeWords(unsafe.Pointer(&s.payload), unsafe.Pointer(&src.v), unsafe.Sizeof(v))

	s.seq.StoreRelease(seq + 2)
}

// Read returns the most recently completed Write, retrying internally
// if it observes a write in progress or straddles one.
func (s *Seqlock[T]) Read() T {
	var dst wordBuf[T]
	sw := spin.Wait{}
	for {
		seq1 := s.seq.LoadAcquire()
		if seq1&1 != 0 {
			sw.Once()
			continue // writer in flight
		}

		loadWords(unsafe.Pointer(&dst.v), unsafe.Pointer(&s.payload), unsafe.Sizeof(dst.v))

		if s.seq.LoadAcquire() == seq1 {
			return dst.v
		}
		sw.Once()
	}
}

// storeWords copies size bytes (rounded up to whole words) from the
// writer's private src into the shared dst with relaxed atomic
// stores. Both pointers must be 8-byte aligned with slack to the next
// word boundary, which the Seqlock and wordBuf layouts guarantee.
func storeWords(dst, src unsafe.Pointer, size uintptr) {
	for off := uintptr(0); off < size; off += 8 {
		w := *(*uint64)(unsafe.Add(src, off))
		(*atomix.Uint64)(unsafe.Add(dst, off)).StoreRelaxed(w)
	}
}

// loadWords is the reader-side mirror of storeWords: relaxed atomic
// loads from the shared src into the reader's private dst.
func loadWords(dst, src unsafe.Pointer, size uintptr) {
	for off := uintptr(0); off < size; off += 8 {
		w := (*atomix.Uint64)(unsafe.Add(src, off)).LoadRelaxed()
		*(*uint64)(unsafe.Add(dst, off)) = w
	}
}
