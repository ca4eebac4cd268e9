package decoder

import (
	"bytes"
	"fmt"

	"github.com/d21d3q/gocis/internal/tuple"
)

func init() {
	Register(tuple.CodeVers1, decodeVers1)
}

const stringListEnd = 0xff

func decodeVers1(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	major, err := c.byte("major version")
	if err != nil {
		return nil, err
	}
	minor, err := c.byte("minor version")
	if err != nil {
		return nil, err
	}
	fields := []Field{Int("Major", int64(major)), Int("Minor", int64(minor))}
	for {
		b, ok := c.peek()
		if !ok || b == stringListEnd {
			return fields, nil
		}
		s, err := c.cstring()
		if err != nil {
			return fields, err
		}
		fields = append(fields, String("Info", s))
	}
}

// cstring consumes a NUL-terminated string including its terminator.
func (c *cursor) cstring() (string, error) {
	n := bytes.IndexByte(c.b[c.off:], 0)
	if n < 0 {
		return "", fmt.Errorf("%w: no NUL terminator after payload offset %d", tuple.ErrMalformedString, c.off)
	}
	s := string(c.b[c.off : c.off+n])
	c.off += n + 1
	return s, nil
}
