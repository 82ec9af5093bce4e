// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cmap

import "unsafe"

// Entry pairs a chain node with a caller payload, replacing the
// C-style embedded-member/offset-of idiom with an explicit wrapper:
// the node carries a back-reference to its entry, so recovering the
// payload from a node yielded by a [Cursor] needs no pointer
// arithmetic.
type Entry[T any] struct {
	node  Node
	Value T
}

// NewEntry builds an entry holding v, ready for [Map.Insert] via
// [Entry.Node].
func NewEntry[T any](v T) *Entry[T] {
	e := &Entry[T]{Value: v}
	e.node.entry = unsafe.Pointer(e)
	return e
}

// Node returns the chain node to pass to Insert/Remove.
func (e *Entry[T]) Node() *Node {
	return &e.node
}

// EntryOf recovers the entry a node was built into. Returns nil for a
// bare node that was not created through [NewEntry]. The type
// parameter must match the one the entry was created with.
func EntryOf[T any](n *Node) *Entry[T] {
	if n.entry == nil {
		return nil
	}
	return (*Entry[T])(n.entry)
}
