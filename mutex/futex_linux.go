// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package mutex

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"code.hybscloud.com/atomix"
)

// futexWait blocks the calling goroutine while *addr still equals
// val, exactly as the kernel's FUTEX_WAIT operation specifies:
// atomically check-and-sleep, so a concurrent Unlock that changes the
// word between our last load and the syscall never misses our wakeup.
func futexWait(addr *atomix.Int32, val int32) {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(linuxFutexWaitPrivate),
		uintptr(val),
		0, 0, 0,
	)
	// EAGAIN means the word had already changed; EINTR is a spurious
	// wake. Both are harmless: the caller's Lock loop re-checks state.
	_ = errno
}

// futexWaitTimeout is futexWait with a relative timeout. Reports
// false if the timeout elapsed without a wake.
func futexWaitTimeout(addr *atomix.Int32, val int32, d time.Duration) bool {
	ts := unix.NsecToTimespec(d.Nanoseconds())
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(linuxFutexWaitPrivate),
		uintptr(val),
		uintptr(unsafe.Pointer(&ts)),
		0, 0,
	)
	return errno != unix.ETIMEDOUT
}

// futexWake wakes up to limit goroutines parked in futexWait on addr.
func futexWake(addr *atomix.Int32, limit int32) {
	unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(linuxFutexWakePrivate),
		uintptr(limit),
		0, 0, 0,
	)
}

const (
	linuxFutexWait        = 0
	linuxFutexWake        = 1
	linuxFutexPrivateFlag = 128
	linuxFutexWaitPrivate = linuxFutexWait | linuxFutexPrivateFlag
	linuxFutexWakePrivate = linuxFutexWake | linuxFutexPrivateFlag
)
