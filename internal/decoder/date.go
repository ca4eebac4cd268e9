package decoder

import (
	"fmt"
	"time"

	"github.com/d21d3q/gocis/internal/tuple"
)

func init() {
	Register(tuple.CodeDate, decodeDate)
	Register(tuple.CodeBattery, decodeBattery)
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// decodeDate handles CISTPL_DATE: a packed time word followed by a packed
// day word, both little endian in the DOS layout.
func decodeDate(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	tm, err := c.uintLE("time", 2)
	if err != nil {
		return nil, err
	}
	day, err := c.uintLE("day", 2)
	if err != nil {
		return nil, err
	}
	fields := []Field{Hex("Time", tm, 4), Hex("Day", day, 4)}
	if ts, err := packedDateTime(uint16(day), uint16(tm)); err == nil {
		fields = append(fields, String("Date", ts.Format(dateTimeLayout)))
	}
	return fields, nil
}

// decodeBattery handles CISTPL_BATTERY: manufacture and expiration days.
func decodeBattery(payload []byte) ([]Field, error) {
	c := cursor{b: payload}
	var fields []Field
	for _, label := range []string{"Manufactured", "Expires"} {
		day, err := c.uintLE(label, 2)
		if err != nil {
			return fields, err
		}
		fields = append(fields, Hex(label+" raw", day, 4))
		if ts, err := packedDateTime(uint16(day), 0); err == nil {
			fields = append(fields, String(label, ts.Format(dateLayout)))
		}
	}
	return fields, nil
}

// packedDateTime converts DOS packed day and time words. The day word holds
// years since 1980, month and day; the time word holds hours, minutes and
// two-second units.
func packedDateTime(day, tm uint16) (time.Time, error) {
	year := 1980 + int(day>>9)
	month := int((day >> 5) & 0x0F)
	dom := int(day & 0x1F)
	hour := int(tm >> 11)
	minute := int((tm >> 5) & 0x3F)
	second := int(tm&0x1F) * 2
	if month == 0 || month > 12 || dom == 0 || dom > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: packed date %04x time %04x", tuple.ErrInvalidValue, day, tm)
	}
	ts := time.Date(year, time.Month(month), dom, hour, minute, second, 0, time.UTC)
	if ts.Day() != dom {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d is not a calendar day", tuple.ErrInvalidValue, year, month, dom)
	}
	return ts, nil
}
