package procmem

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessInfo describes a target process.
type ProcessInfo struct {
	PID     int
	Name    string
	Exe     string
	Running bool
}

// Describe looks up descriptive information about pid. Fields the host
// refuses to report are left empty.
func Describe(pid int) (*ProcessInfo, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("%w: pid %d: %w", ErrCannotOpenProcess, pid, err)
	}

	info := &ProcessInfo{PID: pid}
	if name, err := p.Name(); err == nil {
		info.Name = name
	}
	if exe, err := p.Exe(); err == nil {
		info.Exe = exe
	}
	if running, err := p.IsRunning(); err == nil {
		info.Running = running
	}
	return info, nil
}
