package decoder

import (
	"fmt"

	"github.com/d21d3q/gocis/internal/tuple"
)

// Func decodes one tuple payload. On failure it returns the fields decoded
// before the fault together with the error.
type Func func(payload []byte) ([]Field, error)

// Descriptor describes how a tuple type is displayed and decoded. Decode is
// nil for types that are framed but not interpreted.
type Descriptor struct {
	Code   tuple.Code
	Name   string
	Decode Func
}

var registry [256]Func

// Register installs the decoder for code. It is meant to be called from init
// and panics on a duplicate registration.
func Register(code tuple.Code, fn Func) {
	if registry[code] != nil {
		panic(fmt.Sprintf("decoder: duplicate registration for %s", code))
	}
	registry[code] = fn
}

// Lookup returns the descriptor for code. Unassigned codes are named
// tuple.UnknownName and carry no decoder.
func Lookup(code tuple.Code) Descriptor {
	return Descriptor{Code: code, Name: code.Name(), Decode: registry[code]}
}

// Decode runs the registered decoder for t. Tuples without a decoder yield
// no fields.
func Decode(t tuple.Tuple) ([]Field, error) {
	fn := registry[t.Code]
	if fn == nil {
		return nil, nil
	}
	return fn(t.Payload)
}

// lookupName returns table[i], or fallback when the entry is empty.
func lookupName(table []string, i int, fallback string) string {
	if i >= 0 && i < len(table) && table[i] != "" {
		return table[i]
	}
	return fallback
}
