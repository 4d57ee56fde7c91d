package nvstore

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Codec converts values of T to and from a fixed number of bytes.
//
// Encode writes exactly Size bytes into dst and Decode reads exactly Size
// bytes from src. Size must be constant for the life of the codec, otherwise
// the storage layout shifts between restarts.
type Codec[T any] interface {
	Size() int
	Encode(dst []byte, v T)
	Decode(src []byte) T
}

type uint8Codec struct{}

func (uint8Codec) Size() int                  { return 1 }
func (uint8Codec) Encode(dst []byte, v uint8) { dst[0] = v }
func (uint8Codec) Decode(src []byte) uint8    { return src[0] }

type uint16Codec struct{}

func (uint16Codec) Size() int                   { return 2 }
func (uint16Codec) Encode(dst []byte, v uint16) { binary.LittleEndian.PutUint16(dst, v) }
func (uint16Codec) Decode(src []byte) uint16    { return binary.LittleEndian.Uint16(src) }

type uint32Codec struct{}

func (uint32Codec) Size() int                   { return 4 }
func (uint32Codec) Encode(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }
func (uint32Codec) Decode(src []byte) uint32    { return binary.LittleEndian.Uint32(src) }

type uint64Codec struct{}

func (uint64Codec) Size() int                   { return 8 }
func (uint64Codec) Encode(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }
func (uint64Codec) Decode(src []byte) uint64    { return binary.LittleEndian.Uint64(src) }

type int32Codec struct{}

func (int32Codec) Size() int                  { return 4 }
func (int32Codec) Encode(dst []byte, v int32) { binary.LittleEndian.PutUint32(dst, uint32(v)) }
func (int32Codec) Decode(src []byte) int32    { return int32(binary.LittleEndian.Uint32(src)) }

type int64Codec struct{}

func (int64Codec) Size() int                  { return 8 }
func (int64Codec) Encode(dst []byte, v int64) { binary.LittleEndian.PutUint64(dst, uint64(v)) }
func (int64Codec) Decode(src []byte) int64    { return int64(binary.LittleEndian.Uint64(src)) }

type float32Codec struct{}

func (float32Codec) Size() int { return 4 }
func (float32Codec) Encode(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}
func (float32Codec) Decode(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src))
}

type float64Codec struct{}

func (float64Codec) Size() int { return 8 }
func (float64Codec) Encode(dst []byte, v float64) {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
}
func (float64Codec) Decode(src []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(src))
}

// Little-endian codecs for the fixed-width numeric types.
var (
	Uint8   Codec[uint8]   = uint8Codec{}
	Uint16  Codec[uint16]  = uint16Codec{}
	Uint32  Codec[uint32]  = uint32Codec{}
	Uint64  Codec[uint64]  = uint64Codec{}
	Int32   Codec[int32]   = int32Codec{}
	Int64   Codec[int64]   = int64Codec{}
	Float32 Codec[float32] = float32Codec{}
	Float64 Codec[float64] = float64Codec{}
)

// BinaryCodec encodes fixed-size values (numbers, arrays and structs made
// only of those) with encoding/binary in little-endian order.
type BinaryCodec[T any] struct {
	size int
}

// NewBinaryCodec returns a codec for T, or an error when T has no fixed
// encoded size (slices, strings, maps, pointers, int/uint).
func NewBinaryCodec[T any]() (*BinaryCodec[T], error) {
	var zero T
	n := binary.Size(zero)
	if n <= 0 {
		return nil, fmt.Errorf("nvstore: type %T has no fixed binary size", zero)
	}
	return &BinaryCodec[T]{size: n}, nil
}

// Size implements Codec.
func (c *BinaryCodec[T]) Size() int { return c.size }

// Encode implements Codec. T was checked at construction, so encoding into a
// buffer of Size bytes cannot fail.
func (c *BinaryCodec[T]) Encode(dst []byte, v T) {
	if _, err := binary.Encode(dst[:c.size], binary.LittleEndian, v); err != nil {
		panic(fmt.Sprintf("nvstore: binary encode: %v", err))
	}
}

// Decode implements Codec.
func (c *BinaryCodec[T]) Decode(src []byte) T {
	var v T
	if _, err := binary.Decode(src[:c.size], binary.LittleEndian, &v); err != nil {
		panic(fmt.Sprintf("nvstore: binary decode: %v", err))
	}
	return v
}
