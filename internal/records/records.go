package records

import "github.com/skdltmxn/idlib-go/procmem"

// Documented record sizes.
const (
	RootSize      = 88
	ClassSize     = 88
	FieldSize     = 88
	MetadataSize  = 8
	EnumSize      = 64
	EnumValueSize = 16
	TypedefSize   = 32
	HashSize      = 8
)

// RootDescriptor is the entry point of one reflection table.
//
// NumClasses and NumEnums count a trailing sentinel entry; NumTypedefs does
// not.
type RootDescriptor struct {
	ProjectName procmem.Address
	Enums       procmem.Address
	NumEnums    int32
	Classes     procmem.Address
	NumClasses  int32
	Typedefs    procmem.Address
	NumTypedefs int32

	RenderModelCtors           procmem.Address
	NumRenderModelCtors        int32
	CustomEventDeclarations    procmem.Address
	NumCustomEventDeclarations int32
}

// ClassEntry describes one class. CreateInstance and
// PlacementCreateInstance are foreign code addresses, kept as opaque values.
type ClassEntry struct {
	Name                    procmem.Address
	SuperType               procmem.Address
	SuperTypeToolsIndex     uint32
	NameHash                uint32
	Size                    uint32
	TemplateParms           procmem.Address
	Variables               procmem.Address
	VariableNameHashes      procmem.Address
	Checksum                uint64
	CreateInstance          uint64
	PlacementCreateInstance uint64
	MetaData                procmem.Address
}

// FieldEntry describes one template parameter or instance variable. An
// entry whose Type is null terminates its array. Get, Set, Reallocate and
// Merge are foreign code addresses, kept as opaque values.
type FieldEntry struct {
	Type            procmem.Address
	Ops             procmem.Address
	Name            procmem.Address
	Offset          uint32
	Size            uint32
	ClassToolsIndex uint32
	EnumToolsIndex  uint32
	Flags           uint64
	Comment         procmem.Address
	Get             uint64
	Set             uint64
	Reallocate      uint64
	Merge           uint64
}

// IsSentinel reports whether e terminates a field array.
func (e FieldEntry) IsSentinel() bool {
	return e.Type.IsNull()
}

// MetadataEntry holds the address of a class's free-text metadata.
type MetadataEntry struct {
	Text procmem.Address
}

// EnumWidth is the storage type tag of an enum.
type EnumWidth uint32

const (
	EnumS8 EnumWidth = iota
	EnumU8
	EnumS16
	EnumU16
	EnumS32
	EnumU32
	EnumS64
	EnumU64
)

func (w EnumWidth) String() string {
	switch w {
	case EnumS8:
		return "s8"
	case EnumU8:
		return "u8"
	case EnumS16:
		return "s16"
	case EnumU16:
		return "u16"
	case EnumS32:
		return "s32"
	case EnumU32:
		return "u32"
	case EnumS64:
		return "s64"
	case EnumU64:
		return "u64"
	default:
		return "unknown"
	}
}

// EnumEntry describes one enum. ValueCount is the literal number of values.
type EnumEntry struct {
	Name            procmem.Address
	Flags           uint64
	Width           EnumWidth
	NameHash        uint32
	ValueCount      uint32
	Values          procmem.Address
	ValueNameHashes procmem.Address
	Checksum        uint64
	ValueIndex      procmem.Address
}

// EnumValueEntry is one named enum value, stored 64 bits wide.
type EnumValueEntry struct {
	Name  procmem.Address
	Value uint64
}

// TypedefEntry describes one type alias.
type TypedefEntry struct {
	Name procmem.Address
	Type procmem.Address
	Ops  procmem.Address
	Size uint32
}

// Record layouts, in foreign declaration order.
var (
	RootLayout = newLayout("RootDescriptor", RootSize,
		fieldDef{"project_name", 8},
		fieldDef{"enums", 8},
		fieldDef{"num_enums", 4},
		fieldDef{"classes", 8},
		fieldDef{"num_classes", 4},
		fieldDef{"typedefs", 8},
		fieldDef{"num_typedefs", 4},
		fieldDef{"render_model_ctors", 8},
		fieldDef{"num_render_model_ctors", 4},
		fieldDef{"logic_custom_event_declarations", 8},
		fieldDef{"num_logic_custom_event_declarations", 4},
	)

	ClassLayout = newLayout("ClassEntry", ClassSize,
		fieldDef{"name", 8},
		fieldDef{"super_type", 8},
		fieldDef{"super_type_tools_index", 4},
		fieldDef{"name_hash", 4},
		fieldDef{"size", 4},
		fieldDef{"template_parms", 8},
		fieldDef{"variables", 8},
		fieldDef{"variable_name_hashes", 8},
		fieldDef{"class_checksum", 8},
		fieldDef{"create_instance", 8},
		fieldDef{"placement_create_instance", 8},
		fieldDef{"meta_data", 8},
	)

	FieldLayout = newLayout("FieldEntry", FieldSize,
		fieldDef{"type", 8},
		fieldDef{"ops", 8},
		fieldDef{"name", 8},
		fieldDef{"offset", 4},
		fieldDef{"size", 4},
		fieldDef{"class_tools_index", 4},
		fieldDef{"enum_tools_index", 4},
		fieldDef{"flags", 8},
		fieldDef{"comment", 8},
		fieldDef{"get", 8},
		fieldDef{"set", 8},
		fieldDef{"reallocate", 8},
		fieldDef{"merge", 8},
	)

	MetadataLayout = newLayout("MetadataEntry", MetadataSize,
		fieldDef{"meta_data", 8},
	)

	EnumLayout = newLayout("EnumEntry", EnumSize,
		fieldDef{"name", 8},
		fieldDef{"flags", 8},
		fieldDef{"enum_type", 4},
		fieldDef{"name_hash", 4},
		fieldDef{"value_index_length", 4},
		fieldDef{"values", 8},
		fieldDef{"value_name_hashes", 8},
		fieldDef{"enum_checksum", 8},
		fieldDef{"value_index", 8},
	)

	EnumValueLayout = newLayout("EnumValueEntry", EnumValueSize,
		fieldDef{"name", 8},
		fieldDef{"value", 8},
	)

	TypedefLayout = newLayout("TypedefEntry", TypedefSize,
		fieldDef{"name", 8},
		fieldDef{"type", 8},
		fieldDef{"ops", 8},
		fieldDef{"size", 4},
	)

	HashLayout = newLayout("Hash", HashSize,
		fieldDef{"hash", 8},
	)
)

// Record kinds.
var (
	RootKind      = Kind[RootDescriptor]{Layout: RootLayout, parse: parseRoot}
	ClassKind     = Kind[ClassEntry]{Layout: ClassLayout, parse: parseClass}
	FieldKind     = Kind[FieldEntry]{Layout: FieldLayout, parse: parseField}
	MetadataKind  = Kind[MetadataEntry]{Layout: MetadataLayout, parse: parseMetadata}
	EnumKind      = Kind[EnumEntry]{Layout: EnumLayout, parse: parseEnum}
	EnumValueKind = Kind[EnumValueEntry]{Layout: EnumValueLayout, parse: parseEnumValue}
	TypedefKind   = Kind[TypedefEntry]{Layout: TypedefLayout, parse: parseTypedef}
	HashKind      = Kind[uint64]{Layout: HashLayout, parse: parseHash}
)

func parseRoot(data []byte) (RootDescriptor, error) {
	var d RootDescriptor
	err := RootLayout.decode(data,
		addr(&d.ProjectName),
		addr(&d.Enums),
		i32(&d.NumEnums),
		addr(&d.Classes),
		i32(&d.NumClasses),
		addr(&d.Typedefs),
		i32(&d.NumTypedefs),
		addr(&d.RenderModelCtors),
		i32(&d.NumRenderModelCtors),
		addr(&d.CustomEventDeclarations),
		i32(&d.NumCustomEventDeclarations),
	)
	return d, err
}

func parseClass(data []byte) (ClassEntry, error) {
	var e ClassEntry
	err := ClassLayout.decode(data,
		addr(&e.Name),
		addr(&e.SuperType),
		u32(&e.SuperTypeToolsIndex),
		u32(&e.NameHash),
		u32(&e.Size),
		addr(&e.TemplateParms),
		addr(&e.Variables),
		addr(&e.VariableNameHashes),
		u64(&e.Checksum),
		u64(&e.CreateInstance),
		u64(&e.PlacementCreateInstance),
		addr(&e.MetaData),
	)
	return e, err
}

func parseField(data []byte) (FieldEntry, error) {
	var e FieldEntry
	err := FieldLayout.decode(data,
		addr(&e.Type),
		addr(&e.Ops),
		addr(&e.Name),
		u32(&e.Offset),
		u32(&e.Size),
		u32(&e.ClassToolsIndex),
		u32(&e.EnumToolsIndex),
		u64(&e.Flags),
		addr(&e.Comment),
		u64(&e.Get),
		u64(&e.Set),
		u64(&e.Reallocate),
		u64(&e.Merge),
	)
	return e, err
}

func parseMetadata(data []byte) (MetadataEntry, error) {
	var e MetadataEntry
	err := MetadataLayout.decode(data, addr(&e.Text))
	return e, err
}

func parseEnum(data []byte) (EnumEntry, error) {
	var (
		e     EnumEntry
		width uint32
	)
	err := EnumLayout.decode(data,
		addr(&e.Name),
		u64(&e.Flags),
		u32(&width),
		u32(&e.NameHash),
		u32(&e.ValueCount),
		addr(&e.Values),
		addr(&e.ValueNameHashes),
		u64(&e.Checksum),
		addr(&e.ValueIndex),
	)
	e.Width = EnumWidth(width)
	return e, err
}

func parseEnumValue(data []byte) (EnumValueEntry, error) {
	var e EnumValueEntry
	err := EnumValueLayout.decode(data, addr(&e.Name), u64(&e.Value))
	return e, err
}

func parseTypedef(data []byte) (TypedefEntry, error) {
	var e TypedefEntry
	err := TypedefLayout.decode(data,
		addr(&e.Name),
		addr(&e.Type),
		addr(&e.Ops),
		u32(&e.Size),
	)
	return e, err
}

func parseHash(data []byte) (uint64, error) {
	var h uint64
	err := HashLayout.decode(data, u64(&h))
	return h, err
}
