package decoder

import (
	"encoding/hex"
	"strings"

	"github.com/d21d3q/gocis/internal/tuple"
)

func init() {
	Register(tuple.CodeConfig, decodeConfig)
}

func decodeConfig(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	sizes, err := c.byte("size byte")
	if err != nil {
		return nil, err
	}
	rasz := int(sizes&0x3) + 1
	rmsz := int((sizes>>2)&0xf) + 1
	last, err := c.byte("last index")
	if err != nil {
		return nil, err
	}
	fields := []Field{Int("Last index", int64(last))}

	ra, err := c.uintLE("register base address", rasz)
	if err != nil {
		return fields, err
	}
	fields = append(fields, Hex("RA", ra, 0))

	mask, err := c.bytes("register presence mask", rmsz)
	if err != nil {
		return fields, err
	}
	fields = append(fields, maskField("RM", mask))

	for _, b := range c.rest() {
		fields = append(fields, Hex("SBTPL", uint64(b), 2))
	}
	return fields, nil
}

// maskField renders a little-endian bitmask of any width as hex. Value is
// only populated when the mask fits in 63 bits.
func maskField(label string, le []byte) Field {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	digits := strings.TrimLeft(hex.EncodeToString(be), "0")
	if digits == "" {
		digits = "0"
	}
	f := Field{Label: label, Kind: KindHex, Text: digits}
	if len(le) < 8 || (len(le) == 8 && le[7]&0x80 == 0) {
		for i, b := range le {
			f.Value |= int64(b) << (8 * i)
		}
	}
	return f
}
