package typeinfo

import (
	"fmt"

	"github.com/skdltmxn/idlib-go/internal/records"
)

// decodeEnum resolves one enum table entry. Unlike class fields, a value
// whose name cannot be read is dropped and the rest of the enum kept.
func (d *Decoder) decodeEnum(e records.EnumEntry) (Enum, error) {
	name, err := d.r.CString(e.Name, d.opts.Text)
	if err != nil {
		return Enum{}, fmt.Errorf("name: %w", err)
	}

	count := int(e.ValueCount)
	entries, err := ReadRecordArray(d.r, e.Values, count, records.EnumValueKind)
	if err != nil {
		return Enum{}, fmt.Errorf("enum %s: values: %w", name, err)
	}

	hashes, err := ReadRecordArray(d.r, e.ValueNameHashes, count, records.HashKind)
	if err != nil {
		return Enum{}, fmt.Errorf("enum %s: value hashes: %w", name, err)
	}

	values := make([]EnumValue, 0, count)
	for i, v := range entries {
		valueName, err := d.r.CString(v.Name, d.opts.Text)
		if err != nil {
			d.log.Debug().Err(err).Str("enum", name).Int("index", i).Msg("skipping unreadable enum value")
			continue
		}
		values = append(values, EnumValue{
			Name:  valueName,
			Value: v.Value,
			Hash:  hashes[i],
		})
	}

	return Enum{
		Name:   name,
		Hash:   e.NameHash,
		Values: values,
		Width:  StorageWidth(e.Width),
	}, nil
}
