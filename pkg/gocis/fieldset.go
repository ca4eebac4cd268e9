package gocis

import (
	"fmt"

	"github.com/d21d3q/gocis/internal/decoder"
)

// FieldSet offers typed lookups by label on top of a record's fields.
type FieldSet struct {
	fields []decoder.Field
}

// FieldSet returns a FieldSet wrapper for the record's fields.
func (rec Record) FieldSet() FieldSet {
	return FieldSet{fields: rec.Fields}
}

// Fields exposes the underlying slice for callers that still need raw access.
func (fs FieldSet) Fields() []decoder.Field {
	return fs.fields
}

// Raw returns the first field with the given label.
func (fs FieldSet) Raw(label string) (decoder.Field, bool) {
	for _, f := range fs.fields {
		if f.Label == label {
			return f, true
		}
	}
	return decoder.Field{}, false
}

// Int returns the integer value of the field. Enum fields yield their code
// and flags yield 0 or 1.
func (fs FieldSet) Int(label string) (int64, error) {
	f, ok := fs.Raw(label)
	if !ok {
		return 0, fmt.Errorf("field %q missing", label)
	}
	switch f.Kind {
	case decoder.KindInt, decoder.KindHex, decoder.KindEnum, decoder.KindFlag:
		return f.Value, nil
	default:
		return 0, fmt.Errorf("field %q has non-integer kind %s", label, f.Kind)
	}
}

// String returns the text of the field: the string itself, the enum name,
// the hex digits or the decimal magnitude with its unit.
func (fs FieldSet) String(label string) (string, error) {
	f, ok := fs.Raw(label)
	if !ok {
		return "", fmt.Errorf("field %q missing", label)
	}
	switch f.Kind {
	case decoder.KindString, decoder.KindEnum:
		return f.Text, nil
	default:
		return f.Display(), nil
	}
}

// Bool returns the value of a flag field.
func (fs FieldSet) Bool(label string) (bool, error) {
	f, ok := fs.Raw(label)
	if !ok {
		return false, fmt.Errorf("field %q missing", label)
	}
	if f.Kind != decoder.KindFlag {
		return false, fmt.Errorf("field %q has non-flag kind %s", label, f.Kind)
	}
	return f.Bool(), nil
}

// Strings returns the text of every field carrying the label, in order.
func (fs FieldSet) Strings(label string) []string {
	var out []string
	for _, f := range fs.fields {
		if f.Label != label {
			continue
		}
		if f.Kind == decoder.KindString || f.Kind == decoder.KindEnum {
			out = append(out, f.Text)
		} else {
			out = append(out, f.Display())
		}
	}
	return out
}
