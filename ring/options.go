// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

// maxCapacity bounds the cell array; beyond this a bounded ring stops
// being a sane backpressure mechanism and the capacity is almost
// certainly a bug.
const maxCapacity = 1 << 28

// Builder declares a ring's capacity and its producer/consumer
// constraints before [Build] allocates it.
//
// Example:
//
//	// General-purpose MPMC ring.
//	q := ring.Build[Request](ring.New(4096))
//
//	// Single-producer, single-consumer.
//	q := ring.Build[Event](ring.New(1024).SingleProducer().SingleConsumer())
type Builder struct {
	capacity       int
	singleProducer bool
	singleConsumer bool
}

// New creates a ring builder with the given capacity, rounded up to
// the next power of two. Panics if capacity < 2 or the rounded
// capacity exceeds 1<<28.
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}
	if capacity > maxCapacity {
		panic("ring: capacity must be <= 1<<28")
	}
	return &Builder{capacity: capacity}
}

// SingleProducer declares that only one goroutine will enqueue,
// letting the producer index advance by plain store instead of CAS.
func (b *Builder) SingleProducer() *Builder {
	b.singleProducer = true
	return b
}

// SingleConsumer declares that only one goroutine will dequeue,
// letting the consumer index advance by plain store instead of CAS.
func (b *Builder) SingleConsumer() *Builder {
	b.singleConsumer = true
	return b
}

// Build allocates the ring described by b.
func Build[T any](b *Builder) *Ring[T] {
	return newRing[T](uint64(roundToPow2(b.capacity)), b.singleProducer, b.singleConsumer)
}

func roundToPow2(n int) int {
	if n < 2 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
