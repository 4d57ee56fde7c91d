package nvstore

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Flush memaksa isi region tersimpan ke file.
//
// Untuk region yang di-mmap ini berarti msync (MS_SYNC bila SyncOnFlush aktif,
// MS_ASYNC bila tidak). Untuk region buffered, image RAM ditulis kembali lalu
// di-fsync bila SyncOnFlush aktif.
func (r *FileRegion) Flush() error {
	if r.mmap != nil {
		flags := unix.MS_ASYNC
		if r.options.SyncOnFlush {
			flags = unix.MS_SYNC
		}
		if err := unix.Msync(r.mmap, flags); err != nil {
			return fmt.Errorf("msync region: %w", err)
		}
		return nil
	}

	if _, err := r.file.WriteAt(r.image, 0); err != nil {
		return fmt.Errorf("write region image: %w", err)
	}
	if r.options.SyncOnFlush {
		if err := r.file.Sync(); err != nil {
			return fmt.Errorf("sync region file: %w", err)
		}
	}
	return nil
}

// Close mem-flush region buffered, melepas mapping, dan menutup file.
// Container di atas region ini tidak boleh dipakai lagi setelahnya.
func (r *FileRegion) Close() error {
	var firstErr error
	if r.mmap != nil {
		if err := unix.Munmap(r.mmap); err != nil {
			firstErr = fmt.Errorf("munmap region: %w", err)
		}
		r.mmap = nil
	} else if r.image != nil {
		if err := r.Flush(); err != nil {
			firstErr = err
		}
		r.image = nil
	}
	if err := r.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close region file: %w", err)
	}
	return firstErr
}
