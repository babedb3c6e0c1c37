package apu

import (
	"math"
	"sync/atomic"

	"nescore/emu/log"
)

// DefaultRingSize is the default capacity of the sample ring buffer.
const DefaultRingSize = 1 << 15

// Ring is a lock-free single-producer single-consumer ring buffer of audio
// samples. The producer never blocks: when the ring is full the oldest
// sample is dropped. The consumer reads whatever is available.
//
// Cursors are free running, they're masked on access.
type Ring struct {
	buf  []atomic.Uint32 // float32 bits
	mask uint32

	w atomic.Uint32
	r atomic.Uint32
}

// NewRing returns a ring able to hold size samples. size is rounded up to the
// next power of two.
func NewRing(size int) *Ring {
	if size < 2 {
		size = 2
	}
	n := uint32(1)
	for int(n) < size {
		n <<= 1
	}
	return &Ring{
		buf:  make([]atomic.Uint32, n),
		mask: n - 1,
	}
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Len returns the number of samples available for reading.
func (r *Ring) Len() int {
	return int(r.w.Load() - r.r.Load())
}

// Push adds a sample, dropping the oldest one if the ring is full. Push must
// only be called from the producer goroutine.
func (r *Ring) Push(v float32) {
	w := r.w.Load()
	for {
		rd := r.r.Load()
		if w-rd < uint32(len(r.buf)) {
			break
		}
		if r.r.CompareAndSwap(rd, rd+1) {
			log.ModSound.DebugZ("ring overflow").End()
			break
		}
	}

	r.buf[w&r.mask].Store(math.Float32bits(v))
	r.w.Store(w + 1)
}

// Pop copies up to len(dst) samples into dst and returns the number of
// copied samples. The rest of dst is left untouched. Pop must only be called
// from the consumer goroutine.
func (r *Ring) Pop(dst []float32) int {
	for {
		rd := r.r.Load()
		avail := r.w.Load() - rd
		n := min(uint32(len(dst)), avail)
		for i := range n {
			dst[i] = math.Float32frombits(r.buf[(rd+i)&r.mask].Load())
		}
		// The producer may have dropped samples we've just read.
		if r.r.CompareAndSwap(rd, rd+n) {
			return int(n)
		}
	}
}

// Reset empties the ring. It must not be called concurrently with Push or
// Pop.
func (r *Ring) Reset() {
	r.w.Store(0)
	r.r.Store(0)
}
