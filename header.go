package nvstore

import "encoding/binary"

// Signature marks a header as initialized. Blank EEPROM reads 0xFF and blank
// files read 0x00, and neither pattern can produce this word.
const Signature uint32 = 0xa2bedef9

// Ring header layout (little-endian):
//
//	0..3   : signature
//	4..7   : head  (next slot to read)
//	8..11  : tail  (next slot to write)
//	12..15 : count (number of stored elements)
//	16..   : data, capacity*elemSize bytes
const (
	ringOffSignature = 0
	ringOffHead      = 4
	ringOffTail      = 8
	ringOffCount     = 12
	ringHeaderSize   = 16
)

// Array header layout (little-endian):
//
//	0..3 : signature
//	4..7 : count
//	8..  : data, capacity*elemSize bytes
const (
	arrayOffSignature = 0
	arrayOffCount     = 4
	arrayHeaderSize   = 8
)

// QueueStorageSize returns the number of region bytes a Queue of the given
// capacity and element size occupies. It must be recomputed identically on
// every restart.
func QueueStorageSize(capacity, elemSize int) int {
	return ringHeaderSize + capacity*elemSize
}

// VectorStorageSize returns the number of region bytes a Vector of the given
// capacity and element size occupies.
func VectorStorageSize(capacity, elemSize int) int {
	return arrayHeaderSize + capacity*elemSize
}

// header is a typed window over the bookkeeping words at base.
type header struct {
	buf  []byte
	base int
}

func (h header) u32(off int) uint32 {
	return binary.LittleEndian.Uint32(h.buf[h.base+off:])
}

func (h header) setU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(h.buf[h.base+off:], v)
}

// claim writes the signature and runs reset when the stored signature does
// not match. It reports whether a reset happened.
func (h header) claim(sigOff int, reset func()) bool {
	if h.u32(sigOff) == Signature {
		return false
	}
	h.setU32(sigOff, Signature)
	reset()
	return true
}
