package nvstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrRegionSize is returned when a region cannot hold the requested size.
var ErrRegionSize = errors.New("nvstore: invalid region size")

// FileRegion is a Region backed by a file on disk.
//
// With Options.UseMmap the file is mapped MAP_SHARED and Bytes returns the
// mapping itself, so writes reach the page cache immediately. Without mmap
// the whole file is read into a RAM image and only written back on Flush,
// which is how EEPROM emulation on flash works.
//
// A FileRegion is not safe for concurrent use.
type FileRegion struct {
	file     *os.File
	filePath string
	size     int
	mmap     []byte // mapping (nil when UseMmap is off)
	image    []byte // RAM image (nil when UseMmap is on)
	options  Options
}

// OpenFileRegion opens (or creates) path as a region of size bytes using
// DefaultOptions.
func OpenFileRegion(path string, size int) (*FileRegion, error) {
	return OpenFileRegionWithOptions(path, size, DefaultOptions())
}

// OpenFileRegionWithOptions opens (or creates) path as a region of size bytes.
// A shorter file is extended with zero bytes; a longer file is left as is and
// only its first size bytes are used.
func OpenFileRegionWithOptions(path string, size int, opts Options) (*FileRegion, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrRegionSize, size)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create region directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat region file: %w", err)
	}
	if st.Size() < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("extend region file: %w", err)
		}
	}

	r := &FileRegion{
		file:     f,
		filePath: path,
		size:     size,
		options:  opts,
	}

	if opts.UseMmap {
		m, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("mmap region: %w", err)
		}
		r.mmap = m
	} else {
		img := make([]byte, size)
		if _, err := f.ReadAt(img, 0); err != nil && !errors.Is(err, io.EOF) {
			f.Close()
			return nil, fmt.Errorf("load region image: %w", err)
		}
		r.image = img
	}

	opts.logger().Debug("nvstore: region opened",
		slog.String("path", path), slog.Int("size", size), slog.Bool("mmap", opts.UseMmap))
	return r, nil
}

// Bytes implements Region.
func (r *FileRegion) Bytes() []byte {
	if r.mmap != nil {
		return r.mmap
	}
	return r.image
}

// Len returns the region size in bytes.
func (r *FileRegion) Len() int { return r.size }

// Path returns the backing file path.
func (r *FileRegion) Path() string { return r.filePath }

// Mapped reports whether the region is memory-mapped.
func (r *FileRegion) Mapped() bool { return r.mmap != nil }
