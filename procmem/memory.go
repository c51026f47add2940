package procmem

import (
	"errors"
	"fmt"
)

// Sentinel errors for memory access.
var (
	// ErrCannotOpenProcess indicates the target is missing or the caller
	// lacks the privilege to read it.
	ErrCannotOpenProcess = errors.New("procmem: cannot open process")

	// ErrReadFailed indicates the requested range is unreadable.
	ErrReadFailed = errors.New("procmem: read failed")

	// ErrClosed indicates the accessor has been closed.
	ErrClosed = errors.New("procmem: accessor is closed")

	// ErrUnsupportedPlatform indicates the host cannot read foreign 64-bit
	// address spaces.
	ErrUnsupportedPlatform = errors.New("procmem: unsupported platform")
)

// Memory reads byte ranges at absolute foreign addresses. Implementations
// return either exactly n bytes or an error; a partial range is reported as
// a *ShortReadError, never as a truncated slice.
type Memory interface {
	ReadBytes(addr Address, n int) ([]byte, error)
}

// Target is a Memory that holds a resource until closed.
type Target interface {
	Memory
	Close() error
}

// ShortReadError reports a read that copied fewer bytes than requested.
type ShortReadError struct {
	Address  Address
	Expected int
	Actual   int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("procmem: short read at %s: expected %d bytes, read %d",
		e.Address, e.Expected, e.Actual)
}

// Is makes a short read match ErrReadFailed.
func (e *ShortReadError) Is(target error) bool { return target == ErrReadFailed }
