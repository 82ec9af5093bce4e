// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package smr provides safe memory reclamation for lock-free readers:
// a hazard-pointer domain and a QSBR (quiescent-state-based)
// reclaimer.
//
// smr is the reclamation substrate of code.hybscloud.com/conc, used by
// [code.hybscloud.com/conc/cmap] and [code.hybscloud.com/conc/queue].
// Both reclaimers are explicit, independently constructible contexts —
// no process-wide statics — with a register/unregister lifecycle per
// the Design Notes' direction to replace global mutable state with a
// context object.
//
// HPDomain protects individual pointers with a bounded number of
// per-thread hazard slots; retiring a pointer defers its free until a
// scan of every slot in the domain proves nothing references it.
// QSBRDomain instead has threads periodically announce a quiescent
// state; an object retired in epoch E is freed once every registered
// thread has observed an epoch past E.
//
// Use HPDomain when readers hold references for short, bounded
// critical sections (a single hash bucket traversal). Use QSBRDomain
// when readers already have a natural per-iteration quiescent point
// (a consumer's dequeue loop).
package smr
