// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package seqlock provides a multi-reader seqlock over a fixed-size
// payload: writers take turns through the counter's odd mark, readers
// never block a writer, and readers detect a
// torn read by comparing a sequence counter before and after copying
// the payload, retrying if it changed.
//
// The brackets follow the shared-memory feeder pattern in
// other_examples (store seq+1 before writing, seq+2 after): odd means
// a write is in flight, even means the payload is stable.
//
// Example:
//
//	var sl seqlock.Seqlock[Quote]
//	sl.Write(Quote{Bid: 101.5, Ask: 101.7})
//	q := sl.Read()
package seqlock
