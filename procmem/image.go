package procmem

import (
	"fmt"
	"os"
	"sort"
)

// Image is an offline address space assembled from mapped byte regions,
// such as a raw dump of a target's memory. It satisfies Target so offline
// and live decoding share one code path.
type Image struct {
	regions []region
}

type region struct {
	base Address
	data []byte
}

func (r region) end() uint64 { return uint64(r.base) + uint64(len(r.data)) }

// NewImage returns an empty image.
func NewImage() *Image {
	return &Image{}
}

// OpenDump maps the contents of a raw memory dump file at base.
func OpenDump(path string, base Address) (*Image, error) {
	//nolint:gosec // G304: path is supplied by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("procmem: failed to read dump: %w", err)
	}

	img := NewImage()
	if err := img.Map(base, data); err != nil {
		return nil, err
	}
	return img, nil
}

// Map makes data readable at [base, base+len(data)). Regions may not
// overlap. The image keeps a reference to data.
func (m *Image) Map(base Address, data []byte) error {
	r := region{base: base, data: data}
	if r.end() < uint64(base) {
		return fmt.Errorf("procmem: region at %s wraps the address space", base)
	}

	for _, o := range m.regions {
		if uint64(base) < o.end() && uint64(o.base) < r.end() {
			return fmt.Errorf("procmem: region at %s overlaps region at %s", base, o.base)
		}
	}

	m.regions = append(m.regions, r)
	sort.Slice(m.regions, func(i, j int) bool {
		return m.regions[i].base < m.regions[j].base
	})
	return nil
}

// ReadBytes copies n bytes at addr out of the region containing addr. A
// range running past the end of its region is a short read.
func (m *Image) ReadBytes(addr Address, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrReadFailed, n)
	}
	if n == 0 {
		return []byte{}, nil
	}

	i := sort.Search(len(m.regions), func(i int) bool {
		return m.regions[i].end() > uint64(addr)
	})
	if i == len(m.regions) || m.regions[i].base > addr {
		return nil, fmt.Errorf("%w: %d bytes at %s: address not mapped", ErrReadFailed, n, addr)
	}

	r := m.regions[i]
	off := uint64(addr - r.base)
	avail := uint64(len(r.data)) - off
	if avail < uint64(n) {
		return nil, &ShortReadError{Address: addr, Expected: n, Actual: int(avail)}
	}

	buf := make([]byte, n)
	copy(buf, r.data[off:])
	return buf, nil
}

// Close implements Target. Images hold no OS resources.
func (m *Image) Close() error {
	return nil
}
