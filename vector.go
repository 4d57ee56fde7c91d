package nvstore

import (
	"iter"
	"log/slog"
)

// Vector is a fixed-capacity array with stack discipline stored in a Region.
// Elements are appended and removed at the back only and never shifted, so
// every operation is constant time.
//
// A Vector must not be copied and is not safe for concurrent use.
type Vector[T any] struct {
	_ noCopy

	region   Region
	base     int
	capacity int
	elemSize int
	codec    Codec[T]
}

// NewVector overlays a Vector on r at base using DefaultOptions. The same
// preconditions as NewQueue apply, with VectorStorageSize for the extent.
func NewVector[T any](r Region, base, capacity int, codec Codec[T]) *Vector[T] {
	return NewVectorWithOptions(r, base, capacity, codec, DefaultOptions())
}

// NewVectorWithOptions is NewVector with explicit options.
func NewVectorWithOptions[T any](r Region, base, capacity int, codec Codec[T], opts Options) *Vector[T] {
	if capacity < 0 {
		panic("nvstore: negative vector capacity")
	}
	if codec == nil {
		panic("nvstore: nil codec")
	}
	if codec.Size() < 1 {
		panic("nvstore: codec size must be at least 1")
	}

	v := &Vector[T]{
		region:   r,
		base:     base,
		capacity: capacity,
		elemSize: codec.Size(),
		codec:    codec,
	}

	h := v.hdr()
	if h.claim(arrayOffSignature, func() { h.setU32(arrayOffCount, 0) }) {
		opts.logger().Debug("nvstore: vector header reset",
			slog.Int("base", base), slog.Int("capacity", capacity))
	}
	return v
}

func (v *Vector[T]) hdr() header {
	return header{buf: v.region.Bytes(), base: v.base}
}

func (v *Vector[T]) slot(pos int) []byte {
	off := v.base + arrayHeaderSize + pos*v.elemSize
	return v.region.Bytes()[off : off+v.elemSize]
}

// Capacity returns the capacity given at construction.
func (v *Vector[T]) Capacity() int { return v.capacity }

// Len returns the number of stored elements.
func (v *Vector[T]) Len() int { return int(v.hdr().u32(arrayOffCount)) }

// Empty reports whether Len() == 0.
func (v *Vector[T]) Empty() bool { return v.Len() == 0 }

// Full reports whether Len() == Capacity().
func (v *Vector[T]) Full() bool { return v.Len() == v.capacity }

// At returns the element at pos without a bounds check. Positions at or past
// Len() decode stale or neighbouring bytes; positions past the end of the
// region panic with a slice bounds error.
func (v *Vector[T]) At(pos int) T {
	return v.codec.Decode(v.slot(pos))
}

// Set overwrites the element at pos without a bounds check.
func (v *Vector[T]) Set(pos int, x T) {
	v.codec.Encode(v.slot(pos), x)
}

// Get returns the element at pos, or false if pos is outside [0, Len()).
func (v *Vector[T]) Get(pos int) (T, bool) {
	if pos < 0 || pos >= v.Len() {
		var zero T
		return zero, false
	}
	return v.At(pos), true
}

// Back returns the last element, or false if the vector is empty.
func (v *Vector[T]) Back() (T, bool) {
	return v.Get(v.Len() - 1)
}

// PushBack appends x. It returns false and changes nothing when full.
func (v *Vector[T]) PushBack(x T) bool {
	if v.Full() {
		return false
	}
	h := v.hdr()
	n := h.u32(arrayOffCount)
	v.codec.Encode(v.slot(int(n)), x)
	h.setU32(arrayOffCount, n+1)
	return true
}

// PopBack drops the last element. It returns false and changes nothing when
// empty. The slot bytes are left in place.
func (v *Vector[T]) PopBack() bool {
	if v.Empty() {
		return false
	}
	h := v.hdr()
	h.setU32(arrayOffCount, h.u32(arrayOffCount)-1)
	return true
}

// All yields index/element pairs from the front.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := v.Len()
		for i := 0; i < n; i++ {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}
