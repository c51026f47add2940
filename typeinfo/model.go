package typeinfo

import "github.com/skdltmxn/idlib-go/internal/records"

// Snapshot is the decoded reflection table found at one root address. It
// owns all nested data and is not modified after decoding.
type Snapshot struct {
	ProjectName string    `json:"project_name"`
	Classes     []Class   `json:"classes"`
	Enums       []Enum    `json:"enums"`
	Typedefs    []Typedef `json:"typedefs"`
}

// Class is one reflected class.
type Class struct {
	Name          string  `json:"name"`
	SuperType     *string `json:"super_type,omitempty"`
	Hash          uint32  `json:"hash"`
	Size          uint32  `json:"size"`
	TemplateParms []Field `json:"template_parms"`
	Variables     []Field `json:"variables"`
	Checksum      uint64  `json:"checksum"`
	MetaData      *string `json:"meta_data,omitempty"`
}

// Field is a template parameter or an instance variable of a class. Hash is
// set for instance variables only. Flags are copied through uninterpreted.
type Field struct {
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Ops     *string `json:"ops,omitempty"`
	Offset  uint32  `json:"offset"`
	Size    uint32  `json:"size"`
	Flags   uint64  `json:"flags"`
	Comment *string `json:"comment,omitempty"`
	Hash    *uint64 `json:"hash,omitempty"`
}

// StorageWidth is the foreign storage type of an enum's values.
type StorageWidth uint32

func (w StorageWidth) String() string {
	return records.EnumWidth(w).String()
}

// Enum is one reflected enum. Values are widened to 64 bits regardless of
// Width; Width is kept for callers but not serialized.
type Enum struct {
	Name   string       `json:"name"`
	Hash   uint32       `json:"hash"`
	Values []EnumValue  `json:"values"`
	Width  StorageWidth `json:"-"`
}

// EnumValue is one named enum value.
type EnumValue struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
	Hash  uint64 `json:"hash"`
}

// Typedef is one type alias.
type Typedef struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Ops  *string `json:"ops,omitempty"`
	Size uint32  `json:"size"`
}

// Lookup returns the class named name, if any.
func (s *Snapshot) Lookup(name string) (*Class, bool) {
	for i := range s.Classes {
		if s.Classes[i].Name == name {
			return &s.Classes[i], true
		}
	}
	return nil, false
}

// LookupEnum returns the enum named name, if any.
func (s *Snapshot) LookupEnum(name string) (*Enum, bool) {
	for i := range s.Enums {
		if s.Enums[i].Name == name {
			return &s.Enums[i], true
		}
	}
	return nil, false
}
