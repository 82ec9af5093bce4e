// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cmap_test

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"code.hybscloud.com/conc/cmap"
	"code.hybscloud.com/conc/smr"
)

// findValue scans hash's chain for an entry holding want.
func findValue(tok *cmap.ReadToken, hash uint32, want uint32) bool {
	cur := tok.Find(hash)
	for n, ok := cur.Next(); ok; n, ok = cur.Next() {
		if e := cmap.EntryOf[uint32](n); e != nil && e.Value == want {
			return true
		}
	}
	return false
}

func TestMapInsertFindRemove(t *testing.T) {
	hp := smr.NewHPDomain(4, 2)
	m := cmap.NewMap(hp, 16)
	defer m.Close()

	h, err := hp.RegisterThread()
	if err != nil {
		t.Fatalf("RegisterThread: %v", err)
	}
	defer h.Release()

	entries := make([]*cmap.Entry[uint32], 8)
	for i := range entries {
		entries[i] = cmap.NewEntry[uint32](uint32(i))
		m.Insert(entries[i].Node(), cmap.Hash32(uint32(i)))
	}
	if got := m.Len(); got != 8 {
		t.Fatalf("Len: got %d, want 8", got)
	}

	tok := m.Acquire(h)
	for i := range entries {
		if !findValue(tok, cmap.Hash32(uint32(i)), uint32(i)) {
			t.Fatalf("key %d not found", i)
		}
	}
	if findValue(tok, cmap.Hash32(999), 999) {
		t.Fatalf("found a key that was never inserted")
	}
	tok.Release()

	if !m.Remove(entries[3].Node()) {
		t.Fatalf("Remove(3): not found")
	}
	if m.Remove(entries[3].Node()) {
		t.Fatalf("Remove(3) twice: found")
	}
	if got := m.Len(); got != 7 {
		t.Fatalf("Len after remove: got %d, want 7", got)
	}

	tok = m.Acquire(h)
	if findValue(tok, cmap.Hash32(3), 3) {
		t.Fatalf("removed key 3 still observable")
	}
	tok.Release()
}

// TestMapExpansion pushes the node count well past 2x the initial
// bucket count, forcing several online resizes, and checks every key
// is still observable and the bucket array actually grew.
func TestMapExpansion(t *testing.T) {
	hp := smr.NewHPDomain(4, 2)
	m := cmap.NewMap(hp, 4)
	defer m.Close()

	h, err := hp.RegisterThread()
	if err != nil {
		t.Fatalf("RegisterThread: %v", err)
	}
	defer h.Release()

	const keys = 300
	for i := uint32(0); i < keys; i++ {
		m.Insert(cmap.NewEntry[uint32](i).Node(), cmap.Hash32(i))
	}

	if got := m.Len(); got != keys {
		t.Fatalf("Len: got %d, want %d", got, keys)
	}
	if got := m.Buckets(); got <= 4 {
		t.Fatalf("Buckets: got %d, want > 4 after expansion", got)
	}

	tok := m.Acquire(h)
	for i := uint32(0); i < keys; i++ {
		if !findValue(tok, cmap.Hash32(i), i) {
			t.Fatalf("key %d lost across expansion", i)
		}
	}
	tok.Release()
}

// TestMapSeedKeysSurvive seeds the map with 256 random keys, then one
// writer continuously inserts fresh keys above the seed range and
// removes them again while three readers verify that every seed key
// stays observable throughout. Afterwards the map must hold exactly
// the seed keys.
func TestMapSeedKeysSurvive(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test skipped in -short mode")
	}

	hp := smr.NewHPDomain(8, 2)
	m := cmap.NewMap(hp, 64)
	defer m.Close()

	rng := rand.New(rand.NewSource(1))
	const seedCount = 256
	const maxSeed = uint32(1 << 20)
	seeds := make(map[uint32]struct{}, seedCount)
	for len(seeds) < seedCount {
		seeds[rng.Uint32()%maxSeed] = struct{}{}
	}
	seedKeys := make([]uint32, 0, seedCount)
	for k := range seeds {
		seedKeys = append(seedKeys, k)
		m.Insert(cmap.NewEntry[uint32](k).Node(), cmap.Hash32(k))
	}

	var stop atomic.Bool
	var missed atomic.Int64
	var wg sync.WaitGroup

	for r := 0; r < 3; r++ {
		h, err := hp.RegisterThread()
		if err != nil {
			t.Fatalf("RegisterThread: %v", err)
		}
		wg.Add(1)
		go func(h *smr.HPHandle) {
			defer wg.Done()
			defer h.Release()
			for !stop.Load() {
				tok := m.Acquire(h)
				for _, k := range seedKeys {
					if !findValue(tok, cmap.Hash32(k), k) {
						missed.Add(1)
					}
				}
				tok.Release()
			}
		}(h)
	}

	// Single writer: churn fresh keys strictly above the seed range.
	const churn = 3000
	for i := 0; i < churn; i++ {
		k := maxSeed + uint32(i)
		e := cmap.NewEntry[uint32](k)
		m.Insert(e.Node(), cmap.Hash32(k))
		if !m.Remove(e.Node()) {
			t.Fatalf("churn key %d vanished", k)
		}
	}
	stop.Store(true)
	wg.Wait()

	if n := missed.Load(); n != 0 {
		t.Fatalf("readers missed seed keys %d times", n)
	}
	if got := m.Len(); got != seedCount {
		t.Fatalf("Len after churn: got %d, want %d", got, seedCount)
	}
}

func TestMapHashHelpers(t *testing.T) {
	if cmap.Hash32(1) == cmap.Hash32(2) {
		t.Fatalf("Hash32 collided on adjacent keys")
	}
	if cmap.Hash32(7) != cmap.Hash32(7) {
		t.Fatalf("Hash32 not deterministic")
	}
	if cmap.Hash64(1) == cmap.Hash64(2) {
		t.Fatalf("Hash64 collided on adjacent keys")
	}
}

func TestEntryOfBareNode(t *testing.T) {
	hp := smr.NewHPDomain(2, 1)
	m := cmap.NewMap(hp, 4)
	defer m.Close()

	var bare cmap.Node
	m.Insert(&bare, cmap.Hash32(5))

	h, err := hp.RegisterThread()
	if err != nil {
		t.Fatalf("RegisterThread: %v", err)
	}
	defer h.Release()

	tok := m.Acquire(h)
	defer tok.Release()
	cur := tok.Find(cmap.Hash32(5))
	n, ok := cur.Next()
	if !ok {
		t.Fatalf("bare node not found")
	}
	if cmap.EntryOf[uint32](n) != nil {
		t.Fatalf("EntryOf on a bare node: got non-nil")
	}
	if n.Hash() != cmap.Hash32(5) {
		t.Fatalf("Hash: got %#x, want %#x", n.Hash(), cmap.Hash32(5))
	}
}

func BenchmarkMapFind(b *testing.B) {
	hp := smr.NewHPDomain(2, 1)
	m := cmap.NewMap(hp, 1024)
	defer m.Close()
	for i := uint32(0); i < 1024; i++ {
		m.Insert(cmap.NewEntry[uint32](i).Node(), cmap.Hash32(i))
	}
	h, err := hp.RegisterThread()
	if err != nil {
		b.Fatalf("RegisterThread: %v", err)
	}
	defer h.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := uint32(i) & 1023
		tok := m.Acquire(h)
		if !findValue(tok, cmap.Hash32(k), k) {
			b.Fatalf("key %d not found", k)
		}
		tok.Release()
	}
}
