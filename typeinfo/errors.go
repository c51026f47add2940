// Package typeinfo decodes the reflection table of a foreign process into
// classes, enums and typedefs.
package typeinfo

import (
	"errors"
	"fmt"

	"github.com/skdltmxn/idlib-go/procmem"
)

// Sentinel errors for decoding.
var (
	// ErrNullAddress indicates a string or record address was the null
	// sentinel. Optional fields turn it into an absent value.
	ErrNullAddress = errors.New("typeinfo: null address")

	// ErrInvalidEncoding indicates string bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.New("typeinfo: invalid string encoding")

	// ErrMalformedRoot indicates a root descriptor with impossible counts.
	ErrMalformedRoot = errors.New("typeinfo: malformed root descriptor")

	// ErrUnterminatedList indicates a field array without a sentinel entry
	// within the decoding limit.
	ErrUnterminatedList = errors.New("typeinfo: unterminated field list")

	// ErrTooLarge indicates a record array too large to be plausible.
	ErrTooLarge = errors.New("typeinfo: record array too large")
)

// DecodeError reports which table entry failed to decode.
type DecodeError struct {
	Kind    string          // "class", "enum", "typedef" or "root"
	Index   int             // Entry index within its table, -1 for roots
	Address procmem.Address // Address of the entry
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("typeinfo: %s at %s: %v", e.Kind, e.Address, e.Err)
	}
	return fmt.Sprintf("typeinfo: %s #%d at %s: %v", e.Kind, e.Index, e.Address, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
