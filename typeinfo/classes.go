package typeinfo

import (
	"fmt"

	"github.com/skdltmxn/idlib-go/internal/records"
	"github.com/skdltmxn/idlib-go/procmem"
)

// maxFieldEntries bounds the walk of a sentinel-terminated field array.
const maxFieldEntries = 1 << 16

// decodeClass resolves one class table entry. Any failure on mandatory data
// fails the whole class; there are no partial field lists.
func (d *Decoder) decodeClass(e records.ClassEntry) (Class, error) {
	name, err := d.r.CString(e.Name, d.opts.Text)
	if err != nil {
		return Class{}, fmt.Errorf("name: %w", err)
	}

	meta, err := d.classMetadata(e.MetaData)
	if err != nil {
		return Class{}, fmt.Errorf("class %s: metadata: %w", name, err)
	}

	templateParms, err := d.decodeFields(e.TemplateParms, 0, false)
	if err != nil {
		return Class{}, fmt.Errorf("class %s: template parameters: %w", name, err)
	}

	variables, err := d.decodeFields(e.Variables, e.VariableNameHashes, true)
	if err != nil {
		return Class{}, fmt.Errorf("class %s: variables: %w", name, err)
	}

	return Class{
		Name:          name,
		SuperType:     d.r.OptionalCString(e.SuperType),
		Hash:          e.NameHash,
		Size:          e.Size,
		TemplateParms: templateParms,
		Variables:     variables,
		Checksum:      e.Checksum,
		MetaData:      meta,
	}, nil
}

// classMetadata follows the two optional hops to a class's metadata text.
// A null at either hop means no metadata.
func (d *Decoder) classMetadata(addr procmem.Address) (*string, error) {
	if addr.IsNull() {
		return nil, nil
	}

	entry, err := ReadRecord(d.r, addr, records.MetadataKind)
	if err != nil {
		return nil, err
	}
	if entry.Text.IsNull() {
		return nil, nil
	}
	return d.r.OptionalCString(entry.Text), nil
}

// decodeFields walks a field array until its sentinel entry. With withHash,
// entry i is paired with the 64-bit hash at hashes + i*8.
func (d *Decoder) decodeFields(list, hashes procmem.Address, withHash bool) ([]Field, error) {
	fields := []Field{}
	if list.IsNull() {
		return fields, nil
	}

	for i := 0; ; i++ {
		if i == maxFieldEntries {
			return nil, fmt.Errorf("%w: no sentinel in %d entries at %s", ErrUnterminatedList, i, list)
		}

		entry, err := ReadRecord(d.r, list.Add(uint64(i)*records.FieldSize), records.FieldKind)
		if err != nil {
			return nil, fmt.Errorf("field #%d: %w", i, err)
		}
		if entry.IsSentinel() {
			break
		}

		f, err := d.decodeField(entry)
		if err != nil {
			return nil, fmt.Errorf("field #%d: %w", i, err)
		}

		if withHash {
			h, err := ReadRecord(d.r, hashes.Add(uint64(i)*records.HashSize), records.HashKind)
			if err != nil {
				return nil, fmt.Errorf("field #%d hash: %w", i, err)
			}
			f.Hash = &h
		}

		fields = append(fields, f)
	}
	return fields, nil
}

func (d *Decoder) decodeField(e records.FieldEntry) (Field, error) {
	typ, err := d.r.CString(e.Type, d.opts.Text)
	if err != nil {
		return Field{}, fmt.Errorf("type: %w", err)
	}

	name, err := d.r.CString(e.Name, d.opts.Text)
	if err != nil {
		return Field{}, fmt.Errorf("name: %w", err)
	}

	return Field{
		Type:    typ,
		Name:    name,
		Ops:     d.r.OptionalCString(e.Ops),
		Offset:  e.Offset,
		Size:    e.Size,
		Flags:   e.Flags,
		Comment: d.r.OptionalCString(e.Comment),
	}, nil
}
