package nvstore

import (
	"math/rand"
	"slices"
	"testing"
)

func newTestVector(t *testing.T, capacity int) (*Vector[int64], *MemRegion) {
	t.Helper()
	r := NewMemRegion(VectorStorageSize(capacity, Int64.Size()))
	return NewVector(r, 0, capacity, Int64), r
}

func TestVectorPushPop(t *testing.T) {
	v, _ := newTestVector(t, 3)

	if v.PopBack() {
		t.Fatalf("pop on empty vector succeeded")
	}
	for i := int64(1); i <= 3; i++ {
		if !v.PushBack(i * 10) {
			t.Fatalf("push %d failed", i)
		}
	}
	if !v.Full() || v.PushBack(40) {
		t.Fatalf("expected full vector to reject push, len=%d", v.Len())
	}
	for i := 0; i < 3; i++ {
		if got := v.At(i); got != int64(i+1)*10 {
			t.Fatalf("At(%d)=%d", i, got)
		}
	}
	if b, ok := v.Back(); !ok || b != 30 {
		t.Fatalf("Back()=%d,%v", b, ok)
	}
}

func TestVectorStackLaw(t *testing.T) {
	v, _ := newTestVector(t, 8)
	for _, x := range []int64{5, -6, 7} {
		v.PushBack(x)
	}

	before := v.Len()
	if !v.PushBack(99) || !v.PopBack() {
		t.Fatalf("push/pop pair failed")
	}
	if v.Len() != before {
		t.Fatalf("len %d after push/pop, want %d", v.Len(), before)
	}
	for i, want := range []int64{5, -6, 7} {
		if got := v.At(i); got != want {
			t.Fatalf("At(%d)=%d want %d", i, got, want)
		}
	}
}

func TestVectorUncheckedAccessReadsStaleSlot(t *testing.T) {
	v, _ := newTestVector(t, 4)
	v.PushBack(1)
	v.PushBack(2)
	v.PushBack(3)
	v.PopBack()

	// slot 2 is no longer covered by count but its bytes are untouched
	if got := v.At(2); got != 3 {
		t.Fatalf("At(2)=%d, expected stale 3", got)
	}
	if _, ok := v.Get(2); ok {
		t.Fatalf("Get(2) must fail past Len")
	}
	if _, ok := v.Get(-1); ok {
		t.Fatalf("Get(-1) must fail")
	}

	v.Set(0, 11)
	if got, ok := v.Get(0); !ok || got != 11 {
		t.Fatalf("Get(0)=%d,%v after Set", got, ok)
	}
}

func TestVectorPersistsAcrossReconstruction(t *testing.T) {
	v, r := newTestVector(t, 4)
	v.PushBack(100)
	v.PushBack(200)

	again := NewVector(MemRegionFrom(r.Bytes()), 0, 4, Int64)
	if again.Len() != 2 {
		t.Fatalf("len after restart %d", again.Len())
	}
	var got []int64
	for i, x := range again.All() {
		if i != len(got) {
			t.Fatalf("unexpected index %d", i)
		}
		got = append(got, x)
	}
	if len(got) != 2 || got[0] != 100 || got[1] != 200 {
		t.Fatalf("contents after restart %v", got)
	}
	if again.State() != v.State() || !again.State().Consistent() {
		t.Fatalf("state mismatch %+v vs %+v", again.State(), v.State())
	}
}

func TestVectorColdStart(t *testing.T) {
	r := NewMemRegion(VectorStorageSize(2, 8))
	r.Fill(0xFF)

	v := NewVector(r, 0, 2, Int64)
	if !v.Empty() {
		t.Fatalf("expected empty vector on cold start, len=%d", v.Len())
	}
	if v.hdr().u32(arrayOffSignature) != Signature {
		t.Fatalf("signature not written")
	}

	// a second construction over a valid header is a no-op
	v.PushBack(1)
	v = NewVector(r, 0, 2, Int64)
	if v.Len() != 1 {
		t.Fatalf("valid header was reset, len=%d", v.Len())
	}
}

func TestVectorRandomOpsMatchModel(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for capacity := 1; capacity <= 8; capacity++ {
		v, r := newTestVector(t, capacity)
		var model []int64

		for i := 0; i < 500; i++ {
			if rng.Intn(2) == 0 {
				x := rng.Int63()
				ok := v.PushBack(x)
				if ok != (len(model) < capacity) {
					t.Fatalf("cap %d op %d: push returned %v with %d stored", capacity, i, ok, len(model))
				}
				if ok {
					model = append(model, x)
				}
			} else {
				before := slices.Clone(r.Bytes())
				ok := v.PopBack()
				if ok != (len(model) > 0) {
					t.Fatalf("cap %d op %d: pop returned %v with %d stored", capacity, i, ok, len(model))
				}
				if ok {
					model = model[:len(model)-1]
				} else if !slices.Equal(before, r.Bytes()) {
					t.Fatalf("cap %d op %d: pop on empty vector changed the region", capacity, i)
				}
			}

			if v.Len() != len(model) || v.Len() > capacity {
				t.Fatalf("cap %d op %d: len %d, model %d", capacity, i, v.Len(), len(model))
			}
			for j, want := range model {
				if got := v.At(j); got != want {
					t.Fatalf("cap %d op %d: At(%d)=%d want %d", capacity, i, j, got, want)
				}
			}
			if !v.State().Consistent() {
				t.Fatalf("cap %d op %d: inconsistent state %+v", capacity, i, v.State())
			}
		}
	}
}
