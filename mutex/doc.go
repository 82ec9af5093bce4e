// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mutex provides a futex-backed mutex, a condition variable,
// and a priority-inheritance mutex variant.
//
// Mutex holds a three-state word (unlocked / locked / locked-with-
// waiters) and spins briefly before parking, the same spin.Wait-first
// shape the sibling lock-free packages use before giving up a CAS
// loop. On Linux the park/unpark path is a direct futex syscall;
// other platforms fall back to a condition-variable park table.
//
// Example:
//
//	var mu mutex.Mutex
//	mu.Lock()
//	defer mu.Unlock()
package mutex
