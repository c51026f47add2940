//go:build !linux && !windows

package procmem

import "fmt"

type handle struct{}

func openHandle(pid int) (handle, error) {
	return handle{}, fmt.Errorf("%w: pid %d: %w", ErrCannotOpenProcess, pid, ErrUnsupportedPlatform)
}

func (handle) read(Address, []byte) (int, error) { return 0, ErrUnsupportedPlatform }

func (handle) close() error { return nil }
