//go:build windows

package procmem

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

type handle struct {
	h windows.Handle
}

func openHandle(pid int) (handle, error) {
	h, err := windows.OpenProcess(
		windows.PROCESS_VM_READ|windows.PROCESS_QUERY_INFORMATION,
		false,
		uint32(pid),
	)
	if err != nil {
		return handle{}, fmt.Errorf("%w: pid %d: %w", ErrCannotOpenProcess, pid, err)
	}
	return handle{h: h}, nil
}

func (h handle) read(addr Address, buf []byte) (int, error) {
	var n uintptr
	err := windows.ReadProcessMemory(h.h, uintptr(addr), &buf[0], uintptr(len(buf)), &n)
	if err != nil && errors.Is(err, windows.ERROR_PARTIAL_COPY) && n > 0 {
		return int(n), nil
	}
	return int(n), err
}

func (h handle) close() error {
	return windows.CloseHandle(h.h)
}
