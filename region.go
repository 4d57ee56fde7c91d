package nvstore

// Region is a raw, fixed-size byte range in non-volatile storage.
//
// Bytes returns the live backing slice; it must always return the same
// slice for the lifetime of the region. Writing into it is the persistence
// step: containers never copy region contents into a private buffer.
type Region interface {
	Bytes() []byte
}

// MemRegion is a RAM-backed Region. It stands in for an EEPROM image in
// tests and on hosts without real non-volatile memory.
type MemRegion struct {
	buf []byte
}

// NewMemRegion returns a zero-filled region of size bytes.
func NewMemRegion(size int) *MemRegion {
	return &MemRegion{buf: make([]byte, size)}
}

// MemRegionFrom wraps b without copying. Handing the same bytes to a fresh
// container models a power cycle.
func MemRegionFrom(b []byte) *MemRegion {
	return &MemRegion{buf: b}
}

// Bytes implements Region.
func (m *MemRegion) Bytes() []byte { return m.buf }

// Len returns the region size in bytes.
func (m *MemRegion) Len() int { return len(m.buf) }

// Fill sets every byte of the region to b. Factory-fresh EEPROM reads 0xFF.
func (m *MemRegion) Fill(b byte) {
	for i := range m.buf {
		m.buf[i] = b
	}
}
