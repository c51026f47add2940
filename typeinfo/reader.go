package typeinfo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/skdltmxn/idlib-go/internal/records"
	"github.com/skdltmxn/idlib-go/internal/stream"
	"github.com/skdltmxn/idlib-go/procmem"
)

// DefaultStringWindow is the number of bytes probed for a NUL terminator.
const DefaultStringWindow = 1024

// maxArrayBytes bounds a single record array read.
const maxArrayBytes = 64 << 20

// TextPolicy selects how invalid UTF-8 in a foreign string is handled.
type TextPolicy int

const (
	// TextStrict fails with ErrInvalidEncoding.
	TextStrict TextPolicy = iota
	// TextLossy replaces invalid sequences with U+FFFD.
	TextLossy
)

// Reader turns foreign memory into records and strings. It is the only
// place where raw bytes become typed values.
type Reader struct {
	mem    procmem.Memory
	window int
}

// NewReader returns a Reader probing window bytes per string. A window of
// zero or less selects DefaultStringWindow.
func NewReader(mem procmem.Memory, window int) *Reader {
	if window <= 0 {
		window = DefaultStringWindow
	}
	return &Reader{mem: mem, window: window}
}

// ReadRecord reads exactly one record of the given kind at addr.
func ReadRecord[T any](r *Reader, addr procmem.Address, kind records.Kind[T]) (T, error) {
	var zero T
	data, err := r.mem.ReadBytes(addr, kind.Size())
	if err != nil {
		return zero, err
	}
	return kind.Decode(data)
}

// ReadRecordArray reads count contiguous records starting at addr in a
// single read. It returns all records or none.
func ReadRecordArray[T any](r *Reader, addr procmem.Address, count int, kind records.Kind[T]) ([]T, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrTooLarge, count)
	}
	if count == 0 {
		return []T{}, nil
	}

	size := kind.Size()
	if count > maxArrayBytes/size {
		return nil, fmt.Errorf("%w: %d x %s", ErrTooLarge, count, kind.Layout.Name)
	}

	data, err := r.mem.ReadBytes(addr, count*size)
	if err != nil {
		return nil, err
	}

	out := make([]T, count)
	s := stream.NewReader(data)
	for i := range out {
		chunk, err := s.ReadBytes(size)
		if err != nil {
			return nil, err
		}
		if out[i], err = kind.Decode(chunk); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CString reads the NUL-terminated string at addr. The whole probe window
// is read; a window without a NUL is taken as the string.
func (r *Reader) CString(addr procmem.Address, policy TextPolicy) (string, error) {
	if addr.IsNull() {
		return "", ErrNullAddress
	}

	data, err := r.mem.ReadBytes(addr, r.window)
	if err != nil {
		return "", err
	}

	raw, _ := stream.NewReader(data).ReadCString()
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if policy == TextLossy {
		return strings.ToValidUTF8(string(raw), "\uFFFD"), nil
	}
	return "", fmt.Errorf("%w at %s", ErrInvalidEncoding, addr)
}

// OptionalCString reads an optional string. Any failure, including a null
// address, yields nil.
func (r *Reader) OptionalCString(addr procmem.Address) *string {
	s, err := r.CString(addr, TextStrict)
	if err != nil {
		return nil
	}
	return &s
}
