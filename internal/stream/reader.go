// Package stream provides little-endian reading of raw foreign record bytes.
package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Errors returned by Reader
var (
	ErrUnexpectedEOF  = errors.New("stream: unexpected end of data")
	ErrNegativeOffset = errors.New("stream: negative offset")
	ErrOffsetRange    = errors.New("stream: offset out of range")
)

// Reader reads fixed-width values from a byte slice copied out of a foreign
// address space. All multi-byte values are little-endian.
type Reader struct {
	data   []byte
	offset int
}

// NewReader creates a Reader from a byte slice.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// SetOffset moves the read position. Seeking to len(data) is allowed.
func (r *Reader) SetOffset(offset int) error {
	if offset < 0 {
		return ErrNegativeOffset
	}
	if offset > len(r.data) {
		return ErrOffsetRange
	}
	r.offset = offset
	return nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	if r.offset+4 > len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

// ReadU64 reads an unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	if r.offset+8 > len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return v, nil
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadBytes reads n bytes into a fresh slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, ErrUnexpectedEOF
	}
	v := make([]byte, n)
	copy(v, r.data[r.offset:r.offset+n])
	r.offset += n
	return v, nil
}

// ReadCString returns the bytes up to the next NUL. When no NUL is left in
// the data, the rest of the data is returned and terminated is false; the
// caller decides whether that is acceptable.
func (r *Reader) ReadCString() (s []byte, terminated bool) {
	rest := r.data[min(r.offset, len(r.data)):]
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		r.offset += i + 1
		return rest[:i], true
	}
	r.offset = len(r.data)
	return rest, false
}

