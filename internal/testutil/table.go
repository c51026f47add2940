package testutil

import (
	"github.com/skdltmxn/idlib-go/internal/records"
	"github.com/skdltmxn/idlib-go/procmem"
)

// Field describes a class field. Empty optional strings are stored as null
// addresses.
type Field struct {
	Type    string
	Name    string
	Ops     string
	Comment string
	Offset  uint32
	Size    uint32
	Flags   uint64
	Hash    uint64
}

// Class describes a class table entry.
//
// A nil field slice is stored as a null list address; an empty non-nil
// slice is stored as a list holding only the sentinel. The *Addr fields,
// when non-zero, replace the address the builder would have written.
type Class struct {
	Name          string
	Super         string
	Meta          string
	Hash          uint32
	Size          uint32
	Checksum      uint64
	TemplateParms []Field
	Variables     []Field

	NameAddr   procmem.Address
	SuperAddr  procmem.Address
	MetaAddr   procmem.Address
	HashesAddr procmem.Address
}

// EnumValue describes one enum value. NameAddr overrides the name address.
type EnumValue struct {
	Name     string
	Value    uint64
	Hash     uint64
	NameAddr procmem.Address
}

// Enum describes an enum table entry.
type Enum struct {
	Name   string
	Hash   uint32
	Width  records.EnumWidth
	Values []EnumValue
}

// Typedef describes a typedef table entry.
type Typedef struct {
	Name string
	Type string
	Ops  string
	Size uint32
}

// Root describes a whole reflection table.
type Root struct {
	Project  string
	Classes  []Class
	Enums    []Enum
	Typedefs []Typedef
}

// Root lays out r and returns the address of its root descriptor. Class and
// enum tables get a trailing zeroed sentinel entry counted in num_classes
// and num_enums; the typedef count is literal.
func (b *Builder) Root(r Root) procmem.Address {
	classes := b.Alloc((len(r.Classes) + 1) * records.ClassSize)
	for i, c := range r.Classes {
		b.writeClass(classes.Add(uint64(i*records.ClassSize)), c)
	}

	enums := b.Alloc((len(r.Enums) + 1) * records.EnumSize)
	for i, e := range r.Enums {
		b.writeEnum(enums.Add(uint64(i*records.EnumSize)), e)
	}

	typedefs := procmem.Address(0)
	if len(r.Typedefs) > 0 {
		typedefs = b.Alloc(len(r.Typedefs) * records.TypedefSize)
		for i, td := range r.Typedefs {
			b.writeTypedef(typedefs.Add(uint64(i*records.TypedefSize)), td)
		}
	}

	project := b.String(r.Project)

	root := b.Alloc(records.RootSize)
	l := records.RootLayout
	b.SetAddr(root, l, "project_name", project)
	b.SetAddr(root, l, "enums", enums)
	b.Set32(root, l, "num_enums", uint32(len(r.Enums)+1))
	b.SetAddr(root, l, "classes", classes)
	b.Set32(root, l, "num_classes", uint32(len(r.Classes)+1))
	b.SetAddr(root, l, "typedefs", typedefs)
	b.Set32(root, l, "num_typedefs", uint32(len(r.Typedefs)))
	return root
}

func (b *Builder) writeClass(at procmem.Address, c Class) {
	l := records.ClassLayout

	name := pick(c.NameAddr, b.String(c.Name))
	super := pick(c.SuperAddr, b.String(c.Super))

	meta := c.MetaAddr
	if meta.IsNull() && c.Meta != "" {
		text := b.String(c.Meta)
		meta = b.Alloc(records.MetadataSize)
		b.SetAddr(meta, records.MetadataLayout, "meta_data", text)
	}

	templateParms := b.FieldList(c.TemplateParms)
	variables := b.FieldList(c.Variables)

	hashes := c.HashesAddr
	if hashes.IsNull() && len(c.Variables) > 0 {
		hashes = b.Alloc(len(c.Variables) * records.HashSize)
		for i, f := range c.Variables {
			b.PutU64(hashes.Add(uint64(i*records.HashSize)), f.Hash)
		}
	}

	b.SetAddr(at, l, "name", name)
	b.SetAddr(at, l, "super_type", super)
	b.Set32(at, l, "name_hash", c.Hash)
	b.Set32(at, l, "size", c.Size)
	b.SetAddr(at, l, "template_parms", templateParms)
	b.SetAddr(at, l, "variables", variables)
	b.SetAddr(at, l, "variable_name_hashes", hashes)
	b.Set64(at, l, "class_checksum", c.Checksum)
	b.SetAddr(at, l, "meta_data", meta)
}

// FieldList lays out fields followed by a zeroed sentinel entry. A nil
// slice yields the null address.
func (b *Builder) FieldList(fields []Field) procmem.Address {
	if fields == nil {
		return 0
	}

	l := records.FieldLayout
	list := b.Alloc((len(fields) + 1) * records.FieldSize)
	for i, f := range fields {
		at := list.Add(uint64(i * records.FieldSize))
		b.SetAddr(at, l, "type", b.String(f.Type))
		b.SetAddr(at, l, "ops", b.String(f.Ops))
		b.SetAddr(at, l, "name", b.String(f.Name))
		b.Set32(at, l, "offset", f.Offset)
		b.Set32(at, l, "size", f.Size)
		b.Set64(at, l, "flags", f.Flags)
		b.SetAddr(at, l, "comment", b.String(f.Comment))
	}
	return list
}

func (b *Builder) writeEnum(at procmem.Address, e Enum) {
	l := records.EnumLayout

	values := procmem.Address(0)
	hashes := procmem.Address(0)
	if len(e.Values) > 0 {
		values = b.Alloc(len(e.Values) * records.EnumValueSize)
		hashes = b.Alloc(len(e.Values) * records.HashSize)
		for i, v := range e.Values {
			va := values.Add(uint64(i * records.EnumValueSize))
			b.SetAddr(va, records.EnumValueLayout, "name", pick(v.NameAddr, b.String(v.Name)))
			b.Set64(va, records.EnumValueLayout, "value", v.Value)
			b.PutU64(hashes.Add(uint64(i*records.HashSize)), v.Hash)
		}
	}

	b.SetAddr(at, l, "name", b.String(e.Name))
	b.Set32(at, l, "enum_type", uint32(e.Width))
	b.Set32(at, l, "name_hash", e.Hash)
	b.Set32(at, l, "value_index_length", uint32(len(e.Values)))
	b.SetAddr(at, l, "values", values)
	b.SetAddr(at, l, "value_name_hashes", hashes)
}

func (b *Builder) writeTypedef(at procmem.Address, td Typedef) {
	l := records.TypedefLayout
	b.SetAddr(at, l, "name", b.String(td.Name))
	b.SetAddr(at, l, "type", b.String(td.Type))
	b.SetAddr(at, l, "ops", b.String(td.Ops))
	b.Set32(at, l, "size", td.Size)
}

func pick(override, built procmem.Address) procmem.Address {
	if !override.IsNull() {
		return override
	}
	return built
}
