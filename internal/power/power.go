// Package power decodes the CIS power description values found in
// CFTABLE_ENTRY tuples: a mantissa/exponent byte optionally refined by a
// chain of extension bytes, rendered as an exact decimal.
package power

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/d21d3q/gocis/internal/tuple"
)

// Category is the bit position of a value in a power description's
// parameter-selection byte.
type Category uint8

const (
	NomV Category = iota
	MinV
	MaxV
	StaticI
	AvgI
	PeakI
	PDwnI
	Reserved
)

var categoryNames = [8]string{"NomV", "MinV", "MaxV", "StaticI", "AvgI", "PeakI", "PDwnI", "???"}

func (c Category) String() string { return categoryNames[c&7] }

// Voltage reports whether the category is measured in volts.
func (c Category) Voltage() bool { return c < StaticI }

// Unit returns "V" or "A".
func (c Category) Unit() string {
	if c.Voltage() {
		return "V"
	}
	return "A"
}

// Decoded mantissas count 10uV for voltages and 100nA for currents.
const (
	voltageScale = 5
	currentScale = 7
)

const (
	extBit      = 0x80
	extMask     = 0x7f
	maxFraction = 100
	sentinelNC  = 0x7f
	sentinelZ   = 0x7e
)

var mantissas = [16]int64{10, 12, 13, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 70, 80, 90}

var exponents = [8]int64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000}

// Value is one decoded power parameter.
type Value struct {
	Category Category
	HighZ    bool
	Zero     bool
	// Digits is the exact decimal magnitude without the unit.
	Digits string
}

// Text returns the magnitude part of the value: "HighZ", "0" or the digits.
func (v Value) Text() string {
	switch {
	case v.HighZ:
		return "HighZ"
	case v.Zero:
		return "0"
	default:
		return v.Digits
	}
}

// Unit returns the unit suffix, empty for HighZ.
func (v Value) Unit() string {
	if v.HighZ {
		return ""
	}
	return v.Category.Unit()
}

func (v Value) String() string {
	if v.HighZ {
		return v.Category.String() + " HighZ"
	}
	return v.Category.String() + " " + v.Text() + v.Unit()
}

type rational struct {
	mantissa int64
	exp      int
}

// Decode reads one value for cat from the start of b and returns the number
// of bytes consumed.
func Decode(b []byte, cat Category) (Value, int, error) {
	if len(b) == 0 {
		return Value{}, 0, fmt.Errorf("%w: %s value missing", tuple.ErrTruncatedField, cat)
	}
	last := b[0]
	r := rational{exp: int(last & 0x7)}
	r.mantissa = mantissas[(last>>3)&0xf] * exponents[r.exp] / 10
	n := 1
	for last&extBit != 0 {
		if n >= len(b) {
			return Value{}, n, fmt.Errorf("%w: %s extension byte %d missing", tuple.ErrTruncatedField, cat, n)
		}
		last = b[n]
		n++
		v := int64(last & extMask)
		if v >= maxFraction {
			break
		}
		if r.exp < 2 {
			return Value{}, n, fmt.Errorf("%w: %s extension 0x%02x exceeds precision", tuple.ErrInvalidValue, cat, last)
		}
		r.exp -= 2
		r.mantissa += v * exponents[r.exp]
	}

	val := Value{Category: cat}
	switch last & extMask {
	case sentinelNC:
		val.HighZ = true
	case sentinelZ:
		val.Zero = true
	default:
		scale := voltageScale
		if !cat.Voltage() {
			scale = currentScale
		}
		val.Digits = formatFixed(r.mantissa, scale)
	}
	return val, n, nil
}

// formatFixed renders m / 10^scale as the shortest exact decimal.
func formatFixed(m int64, scale int) string {
	div := int64(1)
	for i := 0; i < scale; i++ {
		div *= 10
	}
	whole, frac := m/div, m%div
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	digits := strconv.FormatInt(frac, 10)
	digits = strings.Repeat("0", scale-len(digits)) + digits
	return strconv.FormatInt(whole, 10) + "." + strings.TrimRight(digits, "0")
}
