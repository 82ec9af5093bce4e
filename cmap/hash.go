// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cmap

// Hash32 mixes a 32-bit key into a well-distributed bucket hash using
// the murmur3 finalizer. Callers with structured keys should hash
// them down to 32 bits first and run the result through Hash32.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x85ebca6b
	x ^= x >> 13
	x *= 0xc2b2ae35
	x ^= x >> 16
	return x
}

// Hash64 folds a 64-bit key to a bucket hash via a splitmix64-style
// mix, truncated to 32 bits.
func Hash64(x uint64) uint32 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return uint32(x)
}
