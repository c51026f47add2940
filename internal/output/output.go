// Package output writes decoded reflection tables as a JSON document.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"

	"github.com/skdltmxn/idlib-go/typeinfo"
)

// Document is the serialized form of a run: one element per root, in root
// order.
type Document []*typeinfo.Snapshot

// Marshal renders snaps with two-space indentation. A nil slice renders as
// an empty array.
func Marshal(snaps []*typeinfo.Snapshot) ([]byte, error) {
	if snaps == nil {
		snaps = []*typeinfo.Snapshot{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document(snaps)); err != nil {
		return nil, fmt.Errorf("output: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode writes the document to w and returns its xxh3 digest.
func Encode(w io.Writer, snaps []*typeinfo.Snapshot) (uint64, error) {
	data, err := Marshal(snaps)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("output: write: %w", err)
	}
	return xxh3.Hash(data), nil
}

// WriteFile writes the document to path, replacing any existing file.
func WriteFile(path string, snaps []*typeinfo.Snapshot) (uint64, error) {
	data, err := Marshal(snaps)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("output: write %s: %w", path, err)
	}
	return xxh3.Hash(data), nil
}
