// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package broadcast provides a single/multi-producer multi-consumer
// overwriting ring buffer.
//
// broadcast is the fan-out component of code.hybscloud.com/conc.
// Publishers append messages into a fixed-depth ring; once the ring
// fills, the oldest message is dropped to make room for the newest —
// never the reverse. Subscribers scan forward from a remembered
// position and report both the messages they received and a running
// count of messages they missed, so callers can detect loss without
// the buffer ever blocking a publisher.
//
// Example:
//
//	buf := broadcast.New[Event](128)
//	sub := buf.Subscribe()
//
//	go func() {
//	    for {
//	        ev, drops, ok := sub.Next()
//	        if !ok {
//	            continue // nothing new yet
//	        }
//	        handle(ev, drops)
//	    }
//	}()
//
//	buf.Publish(&Event{...})
package broadcast
