package decoder

import (
	"github.com/d21d3q/gocis/internal/power"
	"github.com/d21d3q/gocis/internal/tuple"
)

func init() {
	Register(tuple.CodeCFTableEntry, decodeCFTableEntry)
}

const (
	entryIndexMask = 0x3f
	entryDefault   = 0x40
	entryInterface = 0x80

	featTiming = 0x04
	featIO     = 0x08
	featIRQ    = 0x10
	featMisc   = 0x80

	ioLinesMask = 0x1f
	io8         = 0x20
	io16        = 0x40
	ioRange     = 0x80

	irqMaskFollows = 0x10
	memHostAddr    = 0x80
	moreFollows    = 0x80
)

var interfaceNames = [16]string{
	0: "memory",
	1: "i/o and memory",
	4: "custom interface 0",
	5: "custom interface 1",
	6: "custom interface 2",
	7: "custom interface 3",
}

func decodeCFTableEntry(payload []byte) ([]Field, error) {
	d := entryDecoder{c: cursor{b: payload}}
	err := d.run()
	return d.fields, err
}

type entryDecoder struct {
	c      cursor
	fields []Field
}

func (d *entryDecoder) emit(f ...Field) { d.fields = append(d.fields, f...) }

func (d *entryDecoder) run() error {
	head, err := d.c.byte("config index")
	if err != nil {
		return err
	}
	d.emit(Hex("Config index", uint64(head&entryIndexMask), 2), Flag("Default", head&entryDefault != 0))
	if head&entryInterface != 0 {
		iface, err := d.c.byte("interface")
		if err != nil {
			return err
		}
		kind := int(iface & 0xf)
		d.emit(
			Enum("Interface", int64(kind), lookupName(interfaceNames[:], kind, "reserved")),
			Flag("BVDs", iface&0x10 != 0),
			Flag("WP", iface&0x20 != 0),
			Flag("RdyBsy", iface&0x40 != 0),
			Flag("MWait", iface&0x80 != 0),
		)
	}

	features, err := d.c.byte("features")
	if err != nil {
		return err
	}
	pwr := int(features & 0x3)
	mem := int((features >> 5) & 0x3)
	d.emit(
		Int("Power descriptors", int64(pwr)),
		Flag("Timing", features&featTiming != 0),
		Flag("IO", features&featIO != 0),
		Flag("IRQ", features&featIRQ != 0),
		Int("Mem", int64(mem)),
		Flag("Misc", features&featMisc != 0),
	)

	for i := 0; i < pwr; i++ {
		if err := d.power(); err != nil {
			return err
		}
	}
	if features&featTiming != 0 {
		if err := d.timing(); err != nil {
			return err
		}
	}
	if features&featIO != 0 {
		if err := d.io(); err != nil {
			return err
		}
	}
	if features&featIRQ != 0 {
		if err := d.irq(); err != nil {
			return err
		}
	}
	if err := d.mem(mem); err != nil {
		return err
	}
	if features&featMisc != 0 {
		if err := d.misc(); err != nil {
			return err
		}
	}
	for _, b := range d.c.rest() {
		d.emit(Hex("SBTPL", uint64(b), 2))
	}
	return nil
}

// power decodes one power description: a parameter-selection byte followed
// by one value per set bit, lowest bit first.
func (d *entryDecoder) power() error {
	present, err := d.c.byte("power parameter selection")
	if err != nil {
		return err
	}
	for k := 0; k < 8; k++ {
		if present&(1<<k) == 0 {
			continue
		}
		v, n, err := power.Decode(d.c.b[d.c.off:], power.Category(k))
		d.c.off += n
		if err != nil {
			return err
		}
		d.emit(Decimal(v.Category.String(), v.Text(), v.Unit()))
	}
	return nil
}

func (d *entryDecoder) timing() error {
	scale, err := d.c.byte("timing scale")
	if err != nil {
		return err
	}
	slots := []struct {
		label string
		scale byte
		none  byte
	}{
		{"Wait", scale & 0x3, 0x3},
		{"Ready", (scale >> 2) & 0x7, 0x7},
		{"Reserved", scale >> 5, 0x7},
	}
	for _, s := range slots {
		if s.scale == s.none {
			continue
		}
		if err := d.speed(s.label); err != nil {
			return err
		}
		d.emit(Int(s.label+" scale", int64(s.scale)))
	}
	return nil
}

// speed consumes a speed byte and any extension bytes chained behind it.
func (d *entryDecoder) speed(label string) error {
	b, err := d.c.byte(label)
	if err != nil {
		return err
	}
	d.emit(Hex(label, uint64(b), 2))
	for b&moreFollows != 0 {
		if b, err = d.c.byte(label + " extension"); err != nil {
			return err
		}
		d.emit(Hex(label+" ext", uint64(b), 2))
	}
	return nil
}

func (d *entryDecoder) io() error {
	desc, err := d.c.byte("io descriptor")
	if err != nil {
		return err
	}
	d.emit(
		Int("IO lines", int64(desc&ioLinesMask)),
		Flag("IO8", desc&io8 != 0),
		Flag("IO16", desc&io16 != 0),
	)
	if desc&ioRange == 0 {
		return nil
	}
	rng, err := d.c.byte("io range")
	if err != nil {
		return err
	}
	nwin := int(rng&0xf) + 1
	bsz := fieldSize((rng >> 4) & 0x3)
	lsz := fieldSize((rng >> 6) & 0x3)
	for i := 0; i < nwin; i++ {
		base, err := d.c.uintLE("io base", bsz)
		if err != nil {
			return err
		}
		length, err := d.c.uintLE("io length", lsz)
		if err != nil {
			return err
		}
		d.emit(Hex("IO base", base, 4), Int("IO length", int64(length)+1))
	}
	return nil
}

func (d *entryDecoder) irq() error {
	info, err := d.c.byte("irq info")
	if err != nil {
		return err
	}
	d.emit(Hex("IRQ info", uint64(info), 2))
	if info&irqMaskFollows == 0 {
		return nil
	}
	mask, err := d.c.uintLE("irq mask", 2)
	if err != nil {
		return err
	}
	d.emit(Hex("IRQ mask", mask, 4))
	return nil
}

// mem decodes the memory space description. Lengths and addresses are
// stored in 256-byte pages.
func (d *entryDecoder) mem(mode int) error {
	switch mode {
	case 0:
		return nil
	case 1:
		length, err := d.c.uintLE("mem length", 2)
		if err != nil {
			return err
		}
		d.emit(Int("Mem length", int64(length<<8)))
		return nil
	case 2:
		length, err := d.c.uintLE("mem length", 2)
		if err != nil {
			return err
		}
		card, err := d.c.uintLE("mem card address", 2)
		if err != nil {
			return err
		}
		d.emit(Int("Mem length", int64(length<<8)), Hex("Mem card addr", card<<8, 8))
		return nil
	}

	desc, err := d.c.byte("mem descriptor")
	if err != nil {
		return err
	}
	nwin := int(desc&0x7) + 1
	lsz := int((desc >> 3) & 0x3)
	asz := int((desc >> 5) & 0x3)
	for i := 0; i < nwin; i++ {
		length, err := d.c.uintLE("mem length", lsz)
		if err != nil {
			return err
		}
		card, err := d.c.uintLE("mem card address", asz)
		if err != nil {
			return err
		}
		d.emit(Int("Mem length", int64(length<<8)), Hex("Mem card addr", card<<8, 8))
		if desc&memHostAddr != 0 {
			host, err := d.c.uintLE("mem host address", asz)
			if err != nil {
				return err
			}
			d.emit(Hex("Mem host addr", host<<8, 8))
		}
	}
	return nil
}

func (d *entryDecoder) misc() error {
	for {
		b, err := d.c.byte("misc")
		if err != nil {
			return err
		}
		d.emit(Hex("Misc byte", uint64(b), 2))
		if b&moreFollows == 0 {
			return nil
		}
	}
}

// fieldSize maps a two-bit size code to a byte count; code 3 means 4 bytes.
func fieldSize(code byte) int {
	if code == 3 {
		return 4
	}
	return int(code)
}
