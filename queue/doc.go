// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue provides an unbounded multi-producer multi-consumer
// lock-free FIFO queue using the Michael–Scott algorithm, reclaimed
// through code.hybscloud.com/conc/smr's hazard-pointer domain.
//
// queue is the unbounded-queue sibling of the bounded queues in
// code.hybscloud.com/conc/ring: reach for ring when an upper bound on
// in-flight items is acceptable (and desirable, for back-pressure);
// reach for queue when producers must never block on a full buffer.
//
// Example:
//
//	hp := smr.NewHPDomain(64, 2)
//	q := queue.NewQueue[int](hp)
//	q.Enqueue(7)
//
//	h, _ := hp.RegisterThread()
//	defer h.Release()
//	v, ok := q.Dequeue(h)
package queue
