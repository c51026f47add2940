package typeinfo

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/skdltmxn/idlib-go/internal/records"
	"github.com/skdltmxn/idlib-go/procmem"
)

// Options controls decoding.
type Options struct {
	// StringWindow is the probe size for NUL-terminated strings
	// (DefaultStringWindow when zero).
	StringWindow int

	// Text is the policy for mandatory strings. Optional strings that fail
	// to decode are always absent.
	Text TextPolicy

	// Typedefs enables decoding of the typedef table. When false every
	// snapshot carries an empty typedef list.
	Typedefs bool

	// KeepGoing skips a class, enum or typedef that fails to decode instead
	// of aborting the run. This changes the output and is off by default.
	KeepGoing bool

	// Logger receives decode diagnostics. Nil discards them.
	Logger *zerolog.Logger
}

// Decoder builds snapshots from one foreign address space.
type Decoder struct {
	r    *Reader
	opts Options
	log  zerolog.Logger
}

// NewDecoder returns a Decoder reading from mem.
func NewDecoder(mem procmem.Memory, opts Options) *Decoder {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Decoder{
		r:    NewReader(mem, opts.StringWindow),
		opts: opts,
		log:  log,
	}
}

// RootInfo is the resolved header of a reflection table. Counts are the
// number of real entries.
type RootInfo struct {
	Address      procmem.Address
	ProjectName  string
	ClassTable   procmem.Address
	ClassCount   int
	EnumTable    procmem.Address
	EnumCount    int
	TypedefTable procmem.Address
	TypedefCount int
}

// Root reads the root descriptor at addr and its project name.
func (d *Decoder) Root(addr procmem.Address) (*RootInfo, error) {
	desc, err := ReadRecord(d.r, addr, records.RootKind)
	if err != nil {
		return nil, &DecodeError{Kind: "root", Index: -1, Address: addr, Err: err}
	}

	// Class and enum tables end with a sentinel entry that is counted.
	if desc.NumClasses < 1 || desc.NumEnums < 1 {
		return nil, &DecodeError{Kind: "root", Index: -1, Address: addr,
			Err: fmt.Errorf("%w: num_classes=%d num_enums=%d", ErrMalformedRoot, desc.NumClasses, desc.NumEnums)}
	}

	name, err := d.r.CString(desc.ProjectName, d.opts.Text)
	if err != nil {
		return nil, &DecodeError{Kind: "root", Index: -1, Address: addr,
			Err: fmt.Errorf("project name: %w", err)}
	}

	return &RootInfo{
		Address:      addr,
		ProjectName:  name,
		ClassTable:   desc.Classes,
		ClassCount:   int(desc.NumClasses) - 1,
		EnumTable:    desc.Enums,
		EnumCount:    int(desc.NumEnums) - 1,
		TypedefTable: desc.Typedefs,
		TypedefCount: int(desc.NumTypedefs),
	}, nil
}

// Snapshot decodes the complete reflection table rooted at addr.
func (d *Decoder) Snapshot(addr procmem.Address) (*Snapshot, error) {
	root, err := d.Root(addr)
	if err != nil {
		return nil, err
	}

	classes, err := d.Classes(root)
	if err != nil {
		return nil, err
	}

	enums, err := d.Enums(root)
	if err != nil {
		return nil, err
	}

	typedefs := []Typedef{}
	if d.opts.Typedefs {
		if typedefs, err = d.Typedefs(root); err != nil {
			return nil, err
		}
	}

	d.log.Debug().
		Str("root", addr.String()).
		Str("project", root.ProjectName).
		Int("classes", len(classes)).
		Int("enums", len(enums)).
		Int("typedefs", len(typedefs)).
		Msg("decoded reflection table")

	return &Snapshot{
		ProjectName: root.ProjectName,
		Classes:     classes,
		Enums:       enums,
		Typedefs:    typedefs,
	}, nil
}

// Snapshots decodes each root in order. The first failure aborts.
func (d *Decoder) Snapshots(addrs []procmem.Address) ([]*Snapshot, error) {
	out := make([]*Snapshot, 0, len(addrs))
	for _, addr := range addrs {
		s, err := d.Snapshot(addr)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Classes decodes the class table of root.
func (d *Decoder) Classes(root *RootInfo) ([]Class, error) {
	entries, err := ReadRecordArray(d.r, root.ClassTable, root.ClassCount, records.ClassKind)
	if err != nil {
		return nil, &DecodeError{Kind: "class table", Index: -1, Address: root.ClassTable, Err: err}
	}

	classes := make([]Class, 0, len(entries))
	for i, e := range entries {
		c, err := d.decodeClass(e)
		if err != nil {
			derr := &DecodeError{Kind: "class", Index: i, Address: entryAddress(root.ClassTable, i, records.ClassSize), Err: err}
			if !d.opts.KeepGoing {
				return nil, derr
			}
			d.log.Warn().Err(derr).Msg("skipping class")
			continue
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// Enums decodes the enum table of root.
func (d *Decoder) Enums(root *RootInfo) ([]Enum, error) {
	entries, err := ReadRecordArray(d.r, root.EnumTable, root.EnumCount, records.EnumKind)
	if err != nil {
		return nil, &DecodeError{Kind: "enum table", Index: -1, Address: root.EnumTable, Err: err}
	}

	enums := make([]Enum, 0, len(entries))
	for i, e := range entries {
		en, err := d.decodeEnum(e)
		if err != nil {
			derr := &DecodeError{Kind: "enum", Index: i, Address: entryAddress(root.EnumTable, i, records.EnumSize), Err: err}
			if !d.opts.KeepGoing {
				return nil, derr
			}
			d.log.Warn().Err(derr).Msg("skipping enum")
			continue
		}
		enums = append(enums, en)
	}
	return enums, nil
}

// Typedefs decodes the typedef table of root. Its count is literal.
func (d *Decoder) Typedefs(root *RootInfo) ([]Typedef, error) {
	if root.TypedefCount < 0 {
		return nil, &DecodeError{Kind: "typedef table", Index: -1, Address: root.TypedefTable,
			Err: fmt.Errorf("%w: num_typedefs=%d", ErrMalformedRoot, root.TypedefCount)}
	}

	entries, err := ReadRecordArray(d.r, root.TypedefTable, root.TypedefCount, records.TypedefKind)
	if err != nil {
		return nil, &DecodeError{Kind: "typedef table", Index: -1, Address: root.TypedefTable, Err: err}
	}

	typedefs := make([]Typedef, 0, len(entries))
	for i, e := range entries {
		td, err := d.decodeTypedef(e)
		if err != nil {
			derr := &DecodeError{Kind: "typedef", Index: i, Address: entryAddress(root.TypedefTable, i, records.TypedefSize), Err: err}
			if !d.opts.KeepGoing {
				return nil, derr
			}
			d.log.Warn().Err(derr).Msg("skipping typedef")
			continue
		}
		typedefs = append(typedefs, td)
	}
	return typedefs, nil
}

func entryAddress(table procmem.Address, i, size int) procmem.Address {
	return table.Add(uint64(i) * uint64(size))
}
