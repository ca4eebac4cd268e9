package decoder

import (
	"unicode/utf8"

	"github.com/d21d3q/gocis/internal/tuple"
)

func init() {
	Register(tuple.CodeChecksum, decodeChecksum)
	Register(tuple.CodeLongLinkA, decodeLongLink)
	Register(tuple.CodeLongLinkC, decodeLongLink)
	Register(tuple.CodeLinkTarget, decodeLinkTarget)
}

// decodeChecksum reports the checked region relative to the tuple and the
// expected 8-bit sum. The region is not verified.
func decodeChecksum(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	off, err := c.uintLE("checksum offset", 2)
	if err != nil {
		return nil, err
	}
	length, err := c.uintLE("checksum length", 2)
	if err != nil {
		return nil, err
	}
	sum, err := c.byte("checksum")
	if err != nil {
		return nil, err
	}
	return []Field{
		Int("Checksum offset", int64(int16(off))),
		Int("Checksum length", int64(length)),
		Hex("Checksum", uint64(sum), 2),
	}, nil
}

func decodeLongLink(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	addr, err := c.uintLE("link address", 4)
	if err != nil {
		return nil, err
	}
	return []Field{Hex("Link address", addr, 8)}, nil
}

func decodeLinkTarget(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	sig, err := c.bytes("link target signature", 3)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(sig) {
		return []Field{Hex("Signature", uint64(sig[0])<<16|uint64(sig[1])<<8|uint64(sig[2]), 6)}, nil
	}
	return []Field{String("Signature", string(sig))}, nil
}
