package nvstore

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLayout wraps every layout validation failure.
var ErrInvalidLayout = errors.New("nvstore: invalid layout")

// Partition kinds.
const (
	KindQueue  = "queue"
	KindVector = "vector"
)

// Layout splits one region between several containers. Firmware rebuilds it
// from configuration on every boot, so it must resolve to the same bases
// each time.
type Layout struct {
	RegionSize int         `yaml:"region_size" json:"region_size"`
	Start      int         `yaml:"start" json:"start"`
	Partitions []Partition `yaml:"partitions" json:"partitions"`
}

// Partition describes one container's slice of the region.
type Partition struct {
	Name     string `yaml:"name" json:"name"`
	Kind     string `yaml:"kind" json:"kind"`
	Capacity int    `yaml:"capacity" json:"capacity"`
	ElemSize int    `yaml:"elem_size" json:"elem_size"`
	Base     *int   `yaml:"base" json:"base"` // nil = place after the previous partition
}

// Size returns the storage size of the partition, or -1 for an unknown kind.
func (p Partition) Size() int {
	switch p.Kind {
	case KindQueue:
		return QueueStorageSize(p.Capacity, p.ElemSize)
	case KindVector:
		return VectorStorageSize(p.Capacity, p.ElemSize)
	}
	return -1
}

// End returns the first byte past the partition. Base must be set.
func (p Partition) End() int { return *p.Base + p.Size() }

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &l, nil
}

// Resolve assigns a base to every partition without one, packing it right
// after the previous partition (or at Start for the first).
func (l *Layout) Resolve() error {
	cursor := l.Start
	for i := range l.Partitions {
		p := &l.Partitions[i]
		if p.Kind != KindQueue && p.Kind != KindVector {
			return fmt.Errorf("%w: partition %q: unknown kind %q", ErrInvalidLayout, p.Name, p.Kind)
		}
		if p.Capacity < 0 {
			return fmt.Errorf("%w: partition %q: capacity must not be negative, got %d", ErrInvalidLayout, p.Name, p.Capacity)
		}
		if p.ElemSize < 1 {
			return fmt.Errorf("%w: partition %q: elem_size must be at least 1, got %d", ErrInvalidLayout, p.Name, p.ElemSize)
		}
		size := p.Size()
		if p.Base == nil {
			base := cursor
			p.Base = &base
		}
		cursor = *p.Base + size
	}
	return nil
}

// Validate checks a resolved layout. It performs declarative validation only
// and never mutates the layout. All problems are reported together.
func Validate(l *Layout) error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidLayout}, args...)...))
	}

	if l.RegionSize <= 0 {
		bad("region_size must be positive, got %d", l.RegionSize)
	}
	if l.Start < 0 {
		bad("start must not be negative, got %d", l.Start)
	}

	seen := make(map[string]bool, len(l.Partitions))
	for i, p := range l.Partitions {
		switch {
		case p.Name == "":
			bad("partition #%d: name is required", i)
		case seen[p.Name]:
			bad("partition %q: duplicate name", p.Name)
		}
		seen[p.Name] = true

		if p.Kind != KindQueue && p.Kind != KindVector {
			bad("partition %q: unknown kind %q", p.Name, p.Kind)
			continue
		}
		if p.Capacity < 0 {
			bad("partition %q: capacity must not be negative", p.Name)
		}
		if p.ElemSize < 1 {
			bad("partition %q: elem_size must be at least 1", p.Name)
		}
		if p.Base == nil {
			bad("partition %q: no base (layout not resolved)", p.Name)
			continue
		}
		if *p.Base < 0 || p.End() > l.RegionSize {
			bad("partition %q: [%d,%d) outside region of %d bytes", p.Name, *p.Base, p.End(), l.RegionSize)
		}
	}

	// overlap check, O(n^2) is fine for the handful of partitions a device has
	for i := 0; i < len(l.Partitions); i++ {
		a := l.Partitions[i]
		if a.Base == nil || a.Size() < 0 {
			continue
		}
		for j := i + 1; j < len(l.Partitions); j++ {
			b := l.Partitions[j]
			if b.Base == nil || b.Size() < 0 {
				continue
			}
			if *a.Base < b.End() && *b.Base < a.End() {
				bad("partitions %q and %q overlap", a.Name, b.Name)
			}
		}
	}

	return errors.Join(errs...)
}

// Find returns the partition that covers addr.
func (l *Layout) Find(addr int) (Partition, bool) {
	for _, p := range l.Partitions {
		if p.Base == nil || p.Size() <= 0 {
			continue
		}
		if addr >= *p.Base && addr < p.End() {
			return p, true
		}
	}
	return Partition{}, false
}

// Partition returns the partition named name.
func (l *Layout) Partition(name string) (Partition, bool) {
	for _, p := range l.Partitions {
		if p.Name == name {
			return p, true
		}
	}
	return Partition{}, false
}

func (l *Layout) lookup(name, kind string, elemSize int) (Partition, error) {
	p, ok := l.Partition(name)
	if !ok {
		return Partition{}, fmt.Errorf("%w: no partition %q", ErrInvalidLayout, name)
	}
	if p.Kind != kind {
		return Partition{}, fmt.Errorf("%w: partition %q is a %s, not a %s", ErrInvalidLayout, name, p.Kind, kind)
	}
	if p.ElemSize != elemSize {
		return Partition{}, fmt.Errorf("%w: partition %q elem_size %d, codec size %d", ErrInvalidLayout, name, p.ElemSize, elemSize)
	}
	if p.Base == nil {
		return Partition{}, fmt.Errorf("%w: partition %q has no base", ErrInvalidLayout, name)
	}
	if *p.Base < 0 {
		return Partition{}, fmt.Errorf("%w: partition %q: negative base %d", ErrInvalidLayout, name, *p.Base)
	}
	if p.Capacity < 0 {
		return Partition{}, fmt.Errorf("%w: partition %q: negative capacity %d", ErrInvalidLayout, name, p.Capacity)
	}
	return p, nil
}

// OpenQueue builds the Queue for the named partition of a resolved layout.
func OpenQueue[T any](r Region, l *Layout, name string, codec Codec[T], opts Options) (*Queue[T], error) {
	p, err := l.lookup(name, KindQueue, codec.Size())
	if err != nil {
		return nil, err
	}
	if p.End() > len(r.Bytes()) {
		return nil, fmt.Errorf("%w: partition %q ends at %d, region has %d bytes", ErrRegionSize, name, p.End(), len(r.Bytes()))
	}
	return NewQueueWithOptions(r, *p.Base, p.Capacity, codec, opts), nil
}

// OpenVector builds the Vector for the named partition of a resolved layout.
func OpenVector[T any](r Region, l *Layout, name string, codec Codec[T], opts Options) (*Vector[T], error) {
	p, err := l.lookup(name, KindVector, codec.Size())
	if err != nil {
		return nil, err
	}
	if p.End() > len(r.Bytes()) {
		return nil, fmt.Errorf("%w: partition %q ends at %d, region has %d bytes", ErrRegionSize, name, p.End(), len(r.Bytes()))
	}
	return NewVectorWithOptions(r, *p.Base, p.Capacity, codec, opts), nil
}
