package typeinfo

import (
	"fmt"

	"github.com/skdltmxn/idlib-go/internal/records"
)

func (d *Decoder) decodeTypedef(e records.TypedefEntry) (Typedef, error) {
	name, err := d.r.CString(e.Name, d.opts.Text)
	if err != nil {
		return Typedef{}, fmt.Errorf("name: %w", err)
	}

	typ, err := d.r.CString(e.Type, d.opts.Text)
	if err != nil {
		return Typedef{}, fmt.Errorf("typedef %s: type: %w", name, err)
	}

	return Typedef{
		Name: name,
		Type: typ,
		Ops:  d.r.OptionalCString(e.Ops),
		Size: e.Size,
	}, nil
}
