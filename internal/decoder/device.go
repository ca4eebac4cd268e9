package decoder

import (
	"fmt"

	"github.com/d21d3q/gocis/internal/tuple"
)

func init() {
	Register(tuple.CodeDevice, decodeDevice)
	Register(tuple.CodeDeviceA, decodeDevice)
	Register(tuple.CodeExtDevice, decodeDevice)
}

const (
	deviceEnd      = 0xff
	deviceWP       = 0x08
	speedExtended  = 7
	extendedMarker = 0x80
)

var deviceTypes = [16]string{
	0x0: "NULL",
	0x1: "ROM",
	0x2: "OTPROM",
	0x3: "EPROM",
	0x4: "EEPROM",
	0x5: "FLASH",
	0x6: "SRAM",
	0x7: "DRAM",
	0xd: "FUNCSPEC",
	0xe: "EXTEND",
}

var deviceSpeeds = [8]string{
	0: "NULL",
	1: "250ns",
	2: "200ns",
	3: "150ns",
	4: "100ns",
	7: "EXT",
}

// decodeDevice walks the device info records of DEVICE style tuples.
func decodeDevice(payload []byte) ([]Field, error) {
	var fields []Field
	c := cursor{b: payload}
	for {
		info, ok := c.peek()
		if !ok || info == deviceEnd {
			return fields, nil
		}
		c.off++
		dtype := int(info >> 4)
		speed := int(info & 0x7)
		fields = append(fields,
			Enum("Device type", int64(dtype), lookupName(deviceTypes[:], dtype, tuple.UnknownName)),
			Flag("WP", info&deviceWP != 0),
			Enum("Speed", int64(speed), lookupName(deviceSpeeds[:], speed, "reserved")),
		)
		if speed == speedExtended {
			for {
				ext, ok := c.peek()
				if !ok || ext&extendedMarker == 0 {
					break
				}
				c.off++
				fields = append(fields, Hex("Ext dev info", uint64(ext), 2))
			}
		}
		size, err := c.byte("device size")
		if err != nil {
			return fields, err
		}
		units := int64(size>>3) + 1
		unitSize := int64(512) << (2 * (size & 0x7))
		fields = append(fields,
			Int("Units", units),
			Int("Unit size", unitSize),
			String("Size", fmt.Sprintf("%d units of %d bytes", units, unitSize)),
		)
	}
}
