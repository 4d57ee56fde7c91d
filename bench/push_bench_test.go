package bench_test

import (
	"context"
	"path/filepath"
	"testing"

	nvstore "github.com/luhtfiimanal/go-nvstore"
)

// BenchmarkPushPop compares one push+pop cycle on a Queue against the
// equivalent SQLite statements.
func BenchmarkPushPop(b *testing.B) {
	codec := readingCodec(b)
	r := reading{SensorID: 1, Time: 1700000000, Sample: 512}

	b.Run("queue-mmap", func(bb *testing.B) {
		size := nvstore.QueueStorageSize(queueCapacity, codec.Size())
		region, err := nvstore.OpenFileRegion(filepath.Join(bb.TempDir(), "eeprom.bin"), size)
		if err != nil {
			bb.Fatalf("open region: %v", err)
		}
		defer region.Close()
		q := nvstore.NewQueue(region, 0, queueCapacity, codec)

		bb.ResetTimer()
		for i := 0; i < bb.N; i++ {
			if !q.Push(r) || !q.Pop() {
				bb.Fatalf("push/pop failed at %d", i)
			}
		}
	})

	b.Run("sqlite", func(bb *testing.B) {
		ctx := context.Background()
		f := openSQLiteFIFO(bb, ":memory:", queueCapacity)
		defer f.db.Close()

		bb.ResetTimer()
		for i := 0; i < bb.N; i++ {
			if ok, err := f.push(ctx, r); err != nil || !ok {
				bb.Fatalf("push: %v", err)
			}
			if ok, err := f.pop(ctx); err != nil || !ok {
				bb.Fatalf("pop: %v", err)
			}
		}
	})
}

// BenchmarkVectorAppend measures filling and draining a Vector.
func BenchmarkVectorAppend(b *testing.B) {
	codec := readingCodec(b)
	region := nvstore.NewMemRegion(nvstore.VectorStorageSize(queueCapacity, codec.Size()))
	v := nvstore.NewVector(region, 0, queueCapacity, codec)
	r := reading{SensorID: 2, Time: 1, Sample: 3}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !v.PushBack(r) {
			for v.PopBack() {
			}
			v.PushBack(r)
		}
	}
}
