package nvstore

import (
	"iter"
	"log/slog"
)

// Queue is a fixed-capacity FIFO ring buffer stored in a Region.
//
// Emptiness and fullness come from an explicit count, so head == tail is
// never ambiguous. Every Push and Pop writes straight into the region.
//
// A Queue must not be copied and is not safe for concurrent use; callers
// serialize access to a given region range themselves.
type Queue[T any] struct {
	_ noCopy

	region   Region
	base     int
	capacity int
	elemSize int
	codec    Codec[T]
}

// NewQueue overlays a Queue on r at base using DefaultOptions.
//
// The caller guarantees that [base, base+QueueStorageSize(capacity,
// codec.Size())) lies inside r and overlaps no other container. If the header
// signature does not match, the queue is reset to empty; otherwise the stored
// head, tail and count are trusted as-is.
func NewQueue[T any](r Region, base, capacity int, codec Codec[T]) *Queue[T] {
	return NewQueueWithOptions(r, base, capacity, codec, DefaultOptions())
}

// NewQueueWithOptions is NewQueue with explicit options.
func NewQueueWithOptions[T any](r Region, base, capacity int, codec Codec[T], opts Options) *Queue[T] {
	if capacity < 0 {
		panic("nvstore: negative queue capacity")
	}
	if codec == nil {
		panic("nvstore: nil codec")
	}
	if codec.Size() < 1 {
		panic("nvstore: codec size must be at least 1")
	}

	q := &Queue[T]{
		region:   r,
		base:     base,
		capacity: capacity,
		elemSize: codec.Size(),
		codec:    codec,
	}

	h := q.hdr()
	if h.claim(ringOffSignature, func() {
		h.setU32(ringOffHead, 0)
		h.setU32(ringOffTail, 0)
		h.setU32(ringOffCount, 0)
	}) {
		opts.logger().Debug("nvstore: queue header reset",
			slog.Int("base", base), slog.Int("capacity", capacity))
	}
	return q
}

func (q *Queue[T]) hdr() header {
	return header{buf: q.region.Bytes(), base: q.base}
}

// slot returns the bytes of slot i.
func (q *Queue[T]) slot(i uint32) []byte {
	off := q.base + ringHeaderSize + int(i)*q.elemSize
	return q.region.Bytes()[off : off+q.elemSize]
}

func (q *Queue[T]) next(i uint32) uint32 {
	i++
	if int(i) == q.capacity {
		i = 0
	}
	return i
}

// Capacity returns the capacity given at construction.
func (q *Queue[T]) Capacity() int { return q.capacity }

// Len returns the number of stored elements.
func (q *Queue[T]) Len() int { return int(q.hdr().u32(ringOffCount)) }

// Empty reports whether Len() == 0.
func (q *Queue[T]) Empty() bool { return q.Len() == 0 }

// Full reports whether Len() == Capacity().
func (q *Queue[T]) Full() bool { return q.Len() == q.capacity }

// Front returns the oldest element. It does not check for emptiness: on an
// empty queue it decodes whatever bytes sit in the head slot.
func (q *Queue[T]) Front() T {
	return q.codec.Decode(q.slot(q.hdr().u32(ringOffHead)))
}

// Peek returns the oldest element, or false if the queue is empty.
func (q *Queue[T]) Peek() (T, bool) {
	if q.Empty() {
		var zero T
		return zero, false
	}
	return q.Front(), true
}

// Push appends v at the tail. It returns false and changes nothing when the
// queue is full.
func (q *Queue[T]) Push(v T) bool {
	if q.Full() {
		return false
	}
	h := q.hdr()
	tail := h.u32(ringOffTail)
	q.codec.Encode(q.slot(tail), v)
	h.setU32(ringOffTail, q.next(tail))
	h.setU32(ringOffCount, h.u32(ringOffCount)+1)
	return true
}

// Pop drops the oldest element. It returns false and changes nothing when
// the queue is empty. The vacated slot is not cleared.
func (q *Queue[T]) Pop() bool {
	if q.Empty() {
		return false
	}
	h := q.hdr()
	h.setU32(ringOffHead, q.next(h.u32(ringOffHead)))
	h.setU32(ringOffCount, h.u32(ringOffCount)-1)
	return true
}

// All yields the stored elements oldest first without removing them.
// The queue must not be modified during iteration.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		h := q.hdr()
		i := h.u32(ringOffHead)
		for n := int(h.u32(ringOffCount)); n > 0; n-- {
			if !yield(q.codec.Decode(q.slot(i))) {
				return
			}
			i = q.next(i)
		}
	}
}
