package decoder

import "github.com/d21d3q/gocis/internal/tuple"

func init() {
	Register(tuple.CodeManfID, decodeManfID)
	Register(tuple.CodeFuncID, decodeFuncID)
}

const (
	sysInitPOST = 0x01
	sysInitROM  = 0x02
)

var functionNames = [256]string{
	0: "MULTI",
	1: "MEMORY",
	2: "SERIAL",
	3: "PARALLEL",
	4: "FIXED",
	5: "VIDEO",
	6: "NETWORK",
	7: "AIMS",
	8: "SCSI",
}

func decodeManfID(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	manf, err := c.uintLE("manufacturer code", 2)
	if err != nil {
		return nil, err
	}
	card, err := c.uintLE("card code", 2)
	if err != nil {
		return nil, err
	}
	fields := []Field{Hex("Manufacturer", manf, 4), Hex("Card", card, 4)}
	for _, b := range c.rest() {
		fields = append(fields, Hex("Extra", uint64(b), 2))
	}
	return fields, nil
}

func decodeFuncID(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	fn, err := c.byte("function code")
	if err != nil {
		return nil, err
	}
	fields := []Field{Enum("Function", int64(fn), lookupName(functionNames[:], int(fn), tuple.UnknownName))}
	sysinit, err := c.byte("system init")
	if err != nil {
		return fields, err
	}
	if sysinit&sysInitPOST != 0 {
		fields = append(fields, Flag("POST", true))
	}
	if sysinit&sysInitROM != 0 {
		fields = append(fields, Flag("ROM", true))
	}
	return fields, nil
}
