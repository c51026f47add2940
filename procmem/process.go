package procmem

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/shirou/gopsutil/v4/process"
)

// Process is a read-only accessor for one live process. It owns the OS
// handle from Open until Close.
type Process struct {
	pid    int
	h      handle
	closed bool
	mu     sync.Mutex
}

// Open opens pid for reading only. The handle carries no write or
// terminate rights.
func Open(pid int) (*Process, error) {
	if strconv.IntSize != 64 {
		return nil, fmt.Errorf("%w: host is not 64-bit", ErrUnsupportedPlatform)
	}
	if pid <= 0 {
		return nil, fmt.Errorf("%w: invalid pid %d", ErrCannotOpenProcess, pid)
	}

	exists, err := process.PidExists(int32(pid))
	if err == nil && !exists {
		return nil, fmt.Errorf("%w: pid %d: no such process", ErrCannotOpenProcess, pid)
	}

	h, err := openHandle(pid)
	if err != nil {
		return nil, err
	}
	return &Process{pid: pid, h: h}, nil
}

// PID returns the process identifier.
func (p *Process) PID() int {
	return p.pid
}

// ReadBytes reads exactly n bytes at addr.
func (p *Process) ReadBytes(addr Address, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrReadFailed, n)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if n == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, n)
	got, err := p.h.read(addr, buf)
	if got == n {
		return buf, nil
	}
	if got > 0 {
		return nil, &ShortReadError{Address: addr, Expected: n, Actual: got}
	}
	if err == nil {
		return nil, &ShortReadError{Address: addr, Expected: n, Actual: 0}
	}
	return nil, fmt.Errorf("%w: %d bytes at %s: %w", ErrReadFailed, n, addr, err)
}

// Close releases the process handle. It is safe to call more than once.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.h.close()
}
