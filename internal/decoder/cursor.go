package decoder

import (
	"fmt"

	"github.com/d21d3q/gocis/internal/tuple"
)

// cursor walks a payload and refuses to read past its end.
type cursor struct {
	b   []byte
	off int
}

func (c *cursor) remaining() int { return len(c.b) - c.off }

func (c *cursor) peek() (byte, bool) {
	if c.off >= len(c.b) {
		return 0, false
	}
	return c.b[c.off], true
}

func (c *cursor) byte(what string) (byte, error) {
	if c.off >= len(c.b) {
		return 0, c.short(what, 1)
	}
	v := c.b[c.off]
	c.off++
	return v, nil
}

func (c *cursor) bytes(what string, n int) ([]byte, error) {
	if n > c.remaining() {
		return nil, c.short(what, n)
	}
	v := c.b[c.off : c.off+n]
	c.off += n
	return v, nil
}

// uintLE reads an n-byte little-endian unsigned integer, n <= 8.
func (c *cursor) uintLE(what string, n int) (uint64, error) {
	b, err := c.bytes(what, n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i, by := range b {
		v |= uint64(by) << (8 * i)
	}
	return v, nil
}

func (c *cursor) rest() []byte {
	v := c.b[c.off:]
	c.off = len(c.b)
	return v
}

func (c *cursor) short(what string, n int) error {
	return fmt.Errorf("%w: %s needs %d byte(s) at payload offset %d, %d left",
		tuple.ErrTruncatedField, what, n, c.off, c.remaining())
}
