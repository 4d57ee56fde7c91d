package nvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

// ErrLayoutMismatch is returned by PinLayout when the layout computed on this
// boot differs from the one pinned on a previous boot.
var ErrLayoutMismatch = errors.New("nvstore: layout mismatch")

// pinnedPartition captures the fields of a Partition that affect placement.
type pinnedPartition struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Base     int    `json:"base"`
	Capacity int    `json:"capacity"`
	ElemSize int    `json:"elem_size"`
}

type pinnedLayout struct {
	RegionSize int               `json:"region_size"`
	Partitions []pinnedPartition `json:"partitions"`
}

func newPinnedLayout(l *Layout) (pinnedLayout, error) {
	pl := pinnedLayout{RegionSize: l.RegionSize}
	for _, p := range l.Partitions {
		if p.Base == nil {
			return pinnedLayout{}, fmt.Errorf("%w: partition %q has no base", ErrInvalidLayout, p.Name)
		}
		pl.Partitions = append(pl.Partitions, pinnedPartition{
			Name:     p.Name,
			Kind:     p.Kind,
			Base:     *p.Base,
			Capacity: p.Capacity,
			ElemSize: p.ElemSize,
		})
	}
	return pl, nil
}

// PinLayout loads the layout sidecar at path if present and verifies that l
// (already resolved) matches it. If the file does not exist, it is created.
// On mismatch it returns ErrLayoutMismatch detailing the differences; region
// contents are never touched.
func PinLayout(path string, l *Layout) error {
	want, err := newPinnedLayout(l)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// first boot: write file
		out, err := json.MarshalIndent(want, "", "  ")
		if err != nil {
			return fmt.Errorf("encode layout pin: %w", err)
		}
		if err := os.WriteFile(path, out, 0o666); err != nil {
			return fmt.Errorf("write layout pin: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read layout pin: %w", err)
	}

	var have pinnedLayout
	if err := json.Unmarshal(data, &have); err != nil {
		return fmt.Errorf("decode layout pin: %w", err)
	}

	if diffs := diffPinned(have, want); len(diffs) > 0 {
		return fmt.Errorf("%w: %s", ErrLayoutMismatch, strings.Join(diffs, "; "))
	}
	return nil
}

func diffPinned(have, want pinnedLayout) []string {
	var diffs []string
	if have.RegionSize != want.RegionSize {
		diffs = append(diffs, fmt.Sprintf("region_size %d -> %d", have.RegionSize, want.RegionSize))
	}

	old := make(map[string]pinnedPartition, len(have.Partitions))
	for _, p := range have.Partitions {
		old[p.Name] = p
	}
	for _, w := range want.Partitions {
		h, ok := old[w.Name]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("%s: new partition", w.Name))
			continue
		}
		delete(old, w.Name)
		if h != w {
			diffs = append(diffs, fmt.Sprintf("%s: %+v -> %+v", w.Name, h, w))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(old)) {
		diffs = append(diffs, fmt.Sprintf("%s: partition removed", name))
	}
	return diffs
}
