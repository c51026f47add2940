//go:build linux

package procmem

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sys/unix"
)

// handle is an open /proc/<pid>/mem descriptor. Opening it performs the
// kernel's ptrace read-access check, so privilege failures surface at Open.
type handle struct {
	fd int
}

func openHandle(pid int) (handle, error) {
	path := fmt.Sprintf("/proc/%d/mem", pid)
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return handle{}, fmt.Errorf("%w: pid %d: %w", ErrCannotOpenProcess, pid, err)
	}
	return handle{fd: fd}, nil
}

func (h handle) read(addr Address, buf []byte) (int, error) {
	if uint64(addr) > math.MaxInt64-uint64(len(buf)) {
		return 0, unix.EFAULT
	}

	total := 0
	for total < len(buf) {
		n, err := unix.Pread(h.fd, buf[total:], int64(addr)+int64(total))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
		total += n
	}
	return total, nil
}

func (h handle) close() error {
	return unix.Close(h.fd)
}
