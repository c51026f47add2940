// Package procmem provides read-only access to the address space of a
// foreign 64-bit process, or of an offline image of one.
package procmem

import (
	"fmt"
	"strconv"
	"strings"
)

// Address is an offset into a foreign address space. It is never a valid
// pointer in the reading process; it is only meaningful as an argument to
// Memory.ReadBytes. Zero is the null sentinel.
type Address uint64

// IsNull reports whether a is the null sentinel.
func (a Address) IsNull() bool { return a == 0 }

// Add returns a advanced by off bytes.
func (a Address) Add(off uint64) Address { return a + Address(off) }

func (a Address) String() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

// ParseAddress parses a "0x"-prefixed hexadecimal or a decimal address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	var (
		v   uint64
		err error
	)
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		v, err = strconv.ParseUint(strings.ReplaceAll(rest, "_", ""), 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("procmem: invalid address %q: %w", s, err)
	}
	return Address(v), nil
}
