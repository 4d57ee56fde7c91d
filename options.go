package nvstore

import (
	"io"
	"log/slog"
)

// Options menyediakan opsi konfigurasi untuk region dan container.
//
//   - UseMmap:     petakan FileRegion dengan mmap, bukan menyimpan image di RAM
//   - SyncOnFlush: Flush menunggu msync/fsync selesai (selain itu msync async)
//   - Logger:      menerima diagnostik cold-start dan flush (nil = dibuang)
//
// Container hanya memakai Logger. Lihat DefaultOptions() untuk nilai bawaan.
type Options struct {
	UseMmap     bool         // mmap file alih-alih membacanya ke memori
	SyncOnFlush bool         // Flush blok sampai data sampai ke perangkat
	Logger      *slog.Logger // nil = dibuang
}

// DefaultOptions mengembalikan konfigurasi default yang digunakan NewQueue,
// NewVector, dan OpenFileRegion.
func DefaultOptions() Options {
	return Options{
		UseMmap:     true,
		SyncOnFlush: true,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return discardLogger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
