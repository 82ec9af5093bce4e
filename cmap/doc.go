// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cmap provides a lock-free hash map for concurrent readers
// and a single writer, with online table expansion.
//
// Readers never block the writer and the writer never blocks readers:
// a reader pins the current table body through a hazard-pointer token
// ([Map.Acquire]) and traverses bucket chains that the writer mutates
// only with atomic pointer stores. When the table grows past twice its
// bucket count, the writer publishes a doubled body and rehashes the
// old nodes into it behind a fence that holds back readers of the new
// body until the rehash completes. Readers that pinned the old body
// keep traversing it undisturbed; the old body is reclaimed through
// the hazard-pointer domain once the last such reader releases.
//
// Insert and Remove are single-writer operations: the package does not
// detect or serialize concurrent writers, callers must.
//
// Example:
//
//	hp := smr.NewHPDomain(8, 2)
//	m := cmap.NewMap(hp, 64)
//
//	e := cmap.NewEntry[string]("payload")
//	m.Insert(e.Node(), cmap.Hash32(42))
//
//	h, _ := hp.RegisterThread()
//	tok := m.Acquire(h)
//	cur := tok.Find(cmap.Hash32(42))
//	for n, ok := cur.Next(); ok; n, ok = cur.Next() {
//	    _ = cmap.EntryOf[string](n).Value
//	}
//	tok.Release()
package cmap
