// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package refcount

import "code.hybscloud.com/atomix"

// magicCookie marks a live refcounted box. Cleared by the final
// Unref so stale references are distinguishable from live ones.
const magicCookie uint64 = 0xc0117ec7ab1e5afe

// Box carries an atomic reference count ahead of its payload.
type Box[T any] struct {
	magic uint64
	count atomix.Int64
	value T
}

// New creates a box holding v with a reference count of one.
func New[T any](v T) *Box[T] {
	b := &Box[T]{magic: magicCookie, value: v}
	b.count.StoreRelease(1)
	return b
}

// Value returns the payload. Only valid while the caller holds a
// reference.
func (b *Box[T]) Value() *T {
	return &b.value
}

// Count returns the current reference count.
func (b *Box[T]) Count() int64 {
	return b.count.LoadAcquire()
}

// Ref takes an additional reference and returns b for handing to
// another holder. Returns ErrNotRefcounted if b's cookie check fails
// (never constructed through New, or already fully released).
func (b *Box[T]) Ref() (*Box[T], error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	b.count.AddAcqRel(1)
	return b, nil
}

// Unref drops one reference. The drop that reaches zero poisons the
// cookie and zeroes the payload so the collector can reclaim what it
// referenced. Returns ErrNotRefcounted on a cookie-check failure,
// which includes unreferencing an already fully released box.
func (b *Box[T]) Unref() error {
	if err := b.check(); err != nil {
		return err
	}
	if b.count.AddAcqRel(-1) == 0 {
		b.magic = 0
		var zero T
		b.value = zero
	}
	return nil
}
