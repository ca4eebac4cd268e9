package decoder

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the value carried by a Field.
type Kind uint8

const (
	KindInt Kind = iota
	KindHex
	KindString
	KindEnum
	KindFlag
	KindDecimal
)

var kindNames = [...]string{
	KindInt:     "int",
	KindHex:     "hex",
	KindString:  "string",
	KindEnum:    "enum",
	KindFlag:    "flag",
	KindDecimal: "decimal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Field is one labeled value produced by a decoder.
//
// Value holds the integer for KindInt, KindHex and KindFlag (0 or 1) and
// the raw code for KindEnum. Text holds the string, the enum name, the
// rendered hex digits or the decimal magnitude. Unit is set for KindDecimal.
type Field struct {
	Label string
	Kind  Kind
	Value int64
	Text  string
	Unit  string
}

// Int returns a labeled integer.
func Int(label string, v int64) Field {
	return Field{Label: label, Kind: KindInt, Value: v}
}

// Hex returns a labeled integer rendered with width hex digits.
func Hex(label string, v uint64, width int) Field {
	return Field{Label: label, Kind: KindHex, Value: int64(v), Text: fmt.Sprintf("%0*x", width, v)}
}

// String returns a labeled string.
func String(label, s string) Field {
	return Field{Label: label, Kind: KindString, Text: s}
}

// Enum returns a labeled enumerated choice.
func Enum(label string, code int64, name string) Field {
	return Field{Label: label, Kind: KindEnum, Value: code, Text: name}
}

// Flag returns a labeled boolean.
func Flag(label string, set bool) Field {
	f := Field{Label: label, Kind: KindFlag}
	if set {
		f.Value = 1
	}
	return f
}

// Decimal returns a labeled unit-tagged decimal.
func Decimal(label, digits, unit string) Field {
	return Field{Label: label, Kind: KindDecimal, Text: digits, Unit: unit}
}

// Bool reports the value of a KindFlag field.
func (f Field) Bool() bool { return f.Value != 0 }

// Display renders the value part of the field.
func (f Field) Display() string {
	switch f.Kind {
	case KindHex:
		return "0x" + f.Text
	case KindString:
		return f.Text
	case KindEnum:
		return fmt.Sprintf("%s (0x%x)", f.Text, f.Value)
	case KindFlag:
		if f.Bool() {
			return "yes"
		}
		return "no"
	case KindDecimal:
		return f.Text + f.Unit
	default:
		return fmt.Sprintf("%d", f.Value)
	}
}

func (f Field) String() string {
	if f.Kind == KindDecimal {
		return f.Label + " " + f.Display()
	}
	return f.Label + ": " + f.Display()
}

// MarshalJSON emits the field with its value in the natural JSON type.
func (f Field) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"label": f.Label,
		"kind":  f.Kind.String(),
	}
	switch f.Kind {
	case KindInt:
		out["value"] = f.Value
	case KindHex:
		out["value"] = "0x" + f.Text
	case KindString:
		out["value"] = f.Text
	case KindEnum:
		out["value"] = f.Value
		out["name"] = f.Text
	case KindFlag:
		out["value"] = f.Bool()
	case KindDecimal:
		out["value"] = f.Text
		out["unit"] = f.Unit
	}
	return json.Marshal(out)
}
