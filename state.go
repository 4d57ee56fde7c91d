package nvstore

// QueueState menyimpan snapshot header Queue untuk diagnostik.
type QueueState struct {
	Base     int // offset header di dalam region
	Capacity int
	Head     uint32 // slot berikutnya untuk dibaca
	Tail     uint32 // slot berikutnya untuk ditulis
	Count    uint32
}

// Consistent memeriksa apakah snapshot memenuhi invarian ring: count tidak
// melebihi kapasitas, indeks berada di [0, capacity), dan
// tail == head+count modulo capacity. Header yang signature-nya masih valid
// tetapi field-nya rusak terlihat di sini; Queue sendiri tidak pernah memeriksa.
func (s QueueState) Consistent() bool {
	c := uint64(s.Capacity)
	if uint64(s.Count) > c {
		return false
	}
	if c == 0 {
		return s.Head == 0 && s.Tail == 0
	}
	if uint64(s.Head) >= c || uint64(s.Tail) >= c {
		return false
	}
	return (uint64(s.Head)+uint64(s.Count))%c == uint64(s.Tail)
}

// State mengambil snapshot header.
func (q *Queue[T]) State() QueueState {
	h := q.hdr()
	return QueueState{
		Base:     q.base,
		Capacity: q.capacity,
		Head:     h.u32(ringOffHead),
		Tail:     h.u32(ringOffTail),
		Count:    h.u32(ringOffCount),
	}
}

// VectorState menyimpan snapshot header Vector.
type VectorState struct {
	Base     int
	Capacity int
	Count    uint32
}

// Consistent memeriksa apakah count tidak melebihi kapasitas.
func (s VectorState) Consistent() bool {
	return uint64(s.Count) <= uint64(s.Capacity)
}

// State mengambil snapshot header.
func (v *Vector[T]) State() VectorState {
	return VectorState{
		Base:     v.base,
		Capacity: v.capacity,
		Count:    v.hdr().u32(arrayOffCount),
	}
}
