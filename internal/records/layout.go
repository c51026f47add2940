// Package records decodes the fixed-layout native records of a foreign
// reflection table.
//
// Each record is described by a Layout: an ordered field table from which
// byte offsets are derived with the natural alignment rules of the foreign
// 64-bit compiler. The derived size is asserted against the documented size
// of the record, so layout drift is caught before any memory is read.
package records

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/skdltmxn/idlib-go/internal/stream"
	"github.com/skdltmxn/idlib-go/procmem"
)

// PointerSize is the width of a foreign address.
const PointerSize = 8

// Errors
var (
	ErrLayoutMismatch = errors.New("records: layout mismatch")
	ErrShortRecord    = errors.New("records: record buffer has wrong size")
)

// Field is one named slot of a record layout.
type Field struct {
	Name   string
	Offset int
	Size   int
}

// Layout is the byte-offset table of a foreign record.
type Layout struct {
	Name   string
	Size   int
	Fields []Field

	derived int
	index   map[string]int
}

type fieldDef struct {
	name string
	size int
}

func newLayout(name string, size int, defs ...fieldDef) *Layout {
	l := &Layout{Name: name, Size: size, index: make(map[string]int, len(defs))}

	off := 0
	for _, s := range defs {
		if mod := off % s.size; mod != 0 {
			off += s.size - mod
		}
		l.index[s.name] = len(l.Fields)
		l.Fields = append(l.Fields, Field{Name: s.name, Offset: off, Size: s.size})
		off += s.size
	}
	if mod := off % PointerSize; mod != 0 {
		off += PointerSize - mod
	}
	l.derived = off
	return l
}

// Check reports whether the derived size matches the documented size.
func (l *Layout) Check() error {
	if l.derived != l.Size {
		return fmt.Errorf("%w: %s is %d bytes, expected %d", ErrLayoutMismatch, l.Name, l.derived, l.Size)
	}
	return nil
}

// Offset returns the byte offset of the named field. It panics on an
// unknown name.
func (l *Layout) Offset(name string) int {
	i, ok := l.index[name]
	if !ok {
		panic(fmt.Sprintf("records: %s has no field %q", l.Name, name))
	}
	return l.Fields[i].Offset
}

// slot reads one layout field into a destination value.
type slot struct {
	size int
	read func(r *stream.Reader) error
}

func addr(dst *procmem.Address) slot {
	return slot{size: 8, read: func(r *stream.Reader) error {
		v, err := r.ReadU64()
		*dst = procmem.Address(v)
		return err
	}}
}

func u64(dst *uint64) slot {
	return slot{size: 8, read: func(r *stream.Reader) error {
		v, err := r.ReadU64()
		*dst = v
		return err
	}}
}

func u32(dst *uint32) slot {
	return slot{size: 4, read: func(r *stream.Reader) error {
		v, err := r.ReadU32()
		*dst = v
		return err
	}}
}

func i32(dst *int32) slot {
	return slot{size: 4, read: func(r *stream.Reader) error {
		v, err := r.ReadI32()
		*dst = v
		return err
	}}
}

// decode fills slots from data, one per layout field, in table order.
func (l *Layout) decode(data []byte, slots ...slot) error {
	if len(data) != l.Size {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortRecord, l.Name, l.Size, len(data))
	}
	if len(slots) != len(l.Fields) {
		return fmt.Errorf("%w: %s has %d fields, decoder has %d", ErrLayoutMismatch, l.Name, len(l.Fields), len(slots))
	}

	r := stream.NewReader(data)
	for i, f := range l.Fields {
		if slots[i].size != f.Size {
			return fmt.Errorf("%w: %s.%s is %d bytes, decoder reads %d", ErrLayoutMismatch, l.Name, f.Name, f.Size, slots[i].size)
		}
		if err := r.SetOffset(f.Offset); err != nil {
			return err
		}
		if err := slots[i].read(r); err != nil {
			return fmt.Errorf("records: %s.%s: %w", l.Name, f.Name, err)
		}
	}
	return nil
}

// Kind binds a record layout to its decoder.
type Kind[T any] struct {
	Layout *Layout
	parse  func(data []byte) (T, error)
}

// Size returns the record size in bytes.
func (k Kind[T]) Size() int {
	return k.Layout.Size
}

// Decode interprets data, which must be exactly Size bytes, as one record.
func (k Kind[T]) Decode(data []byte) (T, error) {
	return k.parse(data)
}

// CheckLayouts asserts that the host is 64-bit and that every record layout
// matches its documented size.
func CheckLayouts() error {
	var errs []error
	if strconv.IntSize != 64 {
		errs = append(errs, fmt.Errorf("%w: host is %d-bit", ErrLayoutMismatch, strconv.IntSize))
	}
	for _, l := range All() {
		if err := l.Check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// All returns every record layout.
func All() []*Layout {
	return []*Layout{
		RootLayout,
		ClassLayout,
		FieldLayout,
		MetadataLayout,
		EnumLayout,
		EnumValueLayout,
		TypedefLayout,
		HashLayout,
	}
}
