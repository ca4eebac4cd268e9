package tuple

import (
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultWindow matches the lookahead buffer of the classic cisparse tool.
	DefaultWindow = 48
	// MaxWindow fits the largest possible tuple: two header bytes plus 255.
	MaxWindow = 2 + 255

	headerLen     = 2
	maxEmptyReads = 100
)

// Tuple is one framed CIS record. Payload is owned by the caller.
type Tuple struct {
	Code    Code
	Length  byte
	Payload []byte
	Offset  int64
	Last    bool
}

// Reader frames tuples from a byte source through a bounded window.
type Reader struct {
	src    io.Reader
	buf    []byte
	left   int
	offset int64
	eof    bool
	done   bool
	err    error
	// srcErr is a failed read, held back until the buffered bytes run out.
	srcErr error
}

// NewReader returns a Reader with the given window capacity. A window of 0
// selects DefaultWindow.
func NewReader(src io.Reader, window int) (*Reader, error) {
	if src == nil {
		return nil, errors.New("tuple: nil source")
	}
	if window == 0 {
		window = DefaultWindow
	}
	if window < headerLen || window > MaxWindow {
		return nil, fmt.Errorf("tuple: window %d outside [%d, %d]", window, headerLen, MaxWindow)
	}
	return &Reader{src: src, buf: make([]byte, window)}, nil
}

// Window returns the capacity of the lookahead buffer.
func (r *Reader) Window() int { return len(r.buf) }

// Offset returns the stream offset of the next unread tuple.
func (r *Reader) Offset() int64 { return r.offset }

// Next frames the next tuple. It returns io.EOF once the source is exhausted
// or after the END tuple has been returned. Any other error is a
// *DecodeError and is returned again by every later call.
func (r *Reader) Next() (Tuple, error) {
	if r.err != nil {
		return Tuple{}, r.err
	}
	if r.done {
		return Tuple{}, io.EOF
	}
	t, err := r.next()
	if err != nil && err != io.EOF {
		r.err = err
	}
	return t, err
}

func (r *Reader) next() (Tuple, error) {
	r.fill()
	if r.left == 0 {
		if r.srcErr != nil {
			return Tuple{}, r.fault(fmt.Errorf("%w: %w", ErrTruncatedStream, r.srcErr))
		}
		r.done = true
		return Tuple{}, io.EOF
	}

	code := Code(r.buf[0])
	switch code {
	case CodeEnd:
		r.done = true
		t := Tuple{Code: code, Offset: r.offset, Last: true}
		r.shift(1)
		return t, nil
	case CodeNull:
		t := Tuple{Code: code, Offset: r.offset, Payload: []byte{}}
		r.shift(1)
		return t, nil
	}

	if r.left < headerLen {
		return Tuple{}, r.fault(r.truncated("missing length byte"))
	}
	length := int(r.buf[1])
	end := headerLen + length
	if end > len(r.buf) {
		return Tuple{}, r.fault(fmt.Errorf("%w: length %d needs %d bytes, window is %d",
			ErrOversizedTuple, length, end, len(r.buf)))
	}
	if end > r.left {
		return Tuple{}, r.fault(r.truncated(fmt.Sprintf("payload needs %d bytes, %d available",
			length, r.left-headerLen)))
	}

	t := Tuple{
		Code:    code,
		Length:  byte(length),
		Payload: append([]byte(nil), r.buf[headerLen:end]...),
		Offset:  r.offset,
	}
	r.shift(end)
	return t, nil
}

// fill reads from the source until the window is full or the source ends.
// A read error stops reading; it is reported only once the buffered bytes
// no longer hold a complete tuple.
func (r *Reader) fill() {
	empty := 0
	for r.left < len(r.buf) && !r.eof {
		n, err := r.src.Read(r.buf[r.left:])
		r.left += n
		if errors.Is(err, io.EOF) {
			r.eof = true
			return
		}
		if err != nil {
			r.srcErr, r.eof = err, true
			return
		}
		if n > 0 {
			empty = 0
			continue
		}
		if empty++; empty >= maxEmptyReads {
			r.srcErr, r.eof = io.ErrNoProgress, true
			return
		}
	}
}

func (r *Reader) truncated(msg string) error {
	if r.srcErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrTruncatedStream, msg, r.srcErr)
	}
	return fmt.Errorf("%w: %s", ErrTruncatedStream, msg)
}

// shift drops n consumed bytes from the front of the window.
func (r *Reader) shift(n int) {
	if n > r.left {
		panic(fmt.Sprintf("tuple: shift %d past %d valid bytes", n, r.left))
	}
	copy(r.buf, r.buf[n:r.left])
	r.left -= n
	r.offset += int64(n)
}

func (r *Reader) fault(err error) error {
	de := &DecodeError{Offset: r.offset, Err: err}
	if r.left > 0 {
		de.Code = Code(r.buf[0])
		de.HasCode = true
	}
	return de
}
