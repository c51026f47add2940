// Package testutil builds synthetic foreign memory images holding
// reflection tables, for decoder and command tests.
package testutil

import (
	"encoding/binary"

	"github.com/skdltmxn/idlib-go/internal/records"
	"github.com/skdltmxn/idlib-go/procmem"
)

// DefaultBase is where builders place their region unless told otherwise.
const DefaultBase procmem.Address = 0x140000000

// Unmapped is an address no builder image maps.
const Unmapped procmem.Address = 0xdead0000

// stringPad is the zeroed tail appended to every image so that a string
// probe starting anywhere in the region stays mapped.
const stringPad = 1024

// Builder lays out records and strings in one contiguous region. Records
// are encoded through the layout offset tables, independently of the
// decoders under test.
type Builder struct {
	base procmem.Address
	buf  []byte
}

// NewBuilder returns a Builder whose region starts at base.
func NewBuilder(base procmem.Address) *Builder {
	return &Builder{base: base}
}

// Alloc reserves n zeroed bytes at an 8-byte aligned address.
func (b *Builder) Alloc(n int) procmem.Address {
	if mod := len(b.buf) % 8; mod != 0 {
		b.buf = append(b.buf, make([]byte, 8-mod)...)
	}
	addr := b.base.Add(uint64(len(b.buf)))
	b.buf = append(b.buf, make([]byte, n)...)
	return addr
}

// Bytes stores data and returns its address.
func (b *Builder) Bytes(data []byte) procmem.Address {
	addr := b.Alloc(len(data))
	copy(b.at(addr, len(data)), data)
	return addr
}

// String stores s NUL-terminated. The empty string yields the null address.
func (b *Builder) String(s string) procmem.Address {
	if s == "" {
		return 0
	}
	return b.Bytes(append([]byte(s), 0))
}

// Set64 writes a 64-bit field of the record at rec.
func (b *Builder) Set64(rec procmem.Address, l *records.Layout, field string, v uint64) {
	binary.LittleEndian.PutUint64(b.at(rec.Add(uint64(l.Offset(field))), 8), v)
}

// Set32 writes a 32-bit field of the record at rec.
func (b *Builder) Set32(rec procmem.Address, l *records.Layout, field string, v uint32) {
	binary.LittleEndian.PutUint32(b.at(rec.Add(uint64(l.Offset(field))), 4), v)
}

// SetAddr writes an address field of the record at rec.
func (b *Builder) SetAddr(rec procmem.Address, l *records.Layout, field string, v procmem.Address) {
	b.Set64(rec, l, field, uint64(v))
}

// PutU64 writes a raw 64-bit value.
func (b *Builder) PutU64(addr procmem.Address, v uint64) {
	binary.LittleEndian.PutUint64(b.at(addr, 8), v)
}

// Size returns the number of bytes laid out so far.
func (b *Builder) Size() int {
	return len(b.buf)
}

// Region returns a copy of the region plus a zeroed tail, suitable for
// writing out as a raw dump loaded at the builder's base.
func (b *Builder) Region() []byte {
	data := make([]byte, len(b.buf)+stringPad)
	copy(data, b.buf)
	return data
}

// Image returns an image mapping Region at Base.
func (b *Builder) Image() *procmem.Image {
	img := procmem.NewImage()
	if err := img.Map(b.base, b.Region()); err != nil {
		panic(err)
	}
	return img
}

func (b *Builder) at(addr procmem.Address, n int) []byte {
	off := int(addr - b.base)
	return b.buf[off : off+n]
}
