package tuple

import "fmt"

// Code is the one-byte tuple type.
type Code byte

// Layer 1 tuples.
const (
	CodeNull           Code = 0x00
	CodeDevice         Code = 0x01
	CodeLongLinkCB     Code = 0x02
	CodeIndirect       Code = 0x03
	CodeConfigCB       Code = 0x04
	CodeCFTableEntryCB Code = 0x05
	CodeLongLinkMFC    Code = 0x06
	CodeBAR            Code = 0x07
	CodePwrMgmnt       Code = 0x08
	CodeExtDevice      Code = 0x09
	CodeChecksum       Code = 0x10
	CodeLongLinkA      Code = 0x11
	CodeLongLinkC      Code = 0x12
	CodeLinkTarget     Code = 0x13
	CodeNoLink         Code = 0x14
	CodeVers1          Code = 0x15
	CodeAltStr         Code = 0x16
	CodeDeviceA        Code = 0x17
	CodeJEDECC         Code = 0x18
	CodeJEDECA         Code = 0x19
	CodeConfig         Code = 0x1a
	CodeCFTableEntry   Code = 0x1b
	CodeDeviceOC       Code = 0x1c
	CodeDeviceOA       Code = 0x1d
	CodeDeviceGeo      Code = 0x1e
	CodeDeviceGeoA     Code = 0x1f
	CodeManfID         Code = 0x20
	CodeFuncID         Code = 0x21
	CodeFuncE          Code = 0x22
	CodeSWIL           Code = 0x23
	CodeEnd            Code = 0xff
)

// Layer 2 tuples.
const (
	CodeVers2     Code = 0x40
	CodeFormat    Code = 0x41
	CodeGeometry  Code = 0x42
	CodeByteOrder Code = 0x43
	CodeDate      Code = 0x44
	CodeBattery   Code = 0x45
	CodeFormatA   Code = 0x47
)

// Layer 3 tuples.
const (
	CodeOrg  Code = 0x46
	CodeSPCL Code = 0x90
)

// UnknownName is the display name for codes without a published assignment.
const UnknownName = "(unknown)"

var names = [256]string{
	CodeNull:           "CISTPL_NULL",
	CodeDevice:         "CISTPL_DEVICE",
	CodeLongLinkCB:     "CISTPL_LONGLINK_CB",
	CodeIndirect:       "CISTPL_INDIRECT",
	CodeConfigCB:       "CISTPL_CONFIG_CB",
	CodeCFTableEntryCB: "CISTPL_CFTABLE_ENTRY_CB",
	CodeLongLinkMFC:    "CISTPL_LONGLINK_MFC",
	CodeBAR:            "CISTPL_BAR",
	CodePwrMgmnt:       "CISTPL_PWR_MGMNT",
	CodeExtDevice:      "CISTPL_EXTDEVICE",
	CodeChecksum:       "CISTPL_CHECKSUM",
	CodeLongLinkA:      "CISTPL_LONGLINK_A",
	CodeLongLinkC:      "CISTPL_LONGLINK_C",
	CodeLinkTarget:     "CISTPL_LINKTARGET",
	CodeNoLink:         "CISTPL_NO_LINK",
	CodeVers1:          "CISTPL_VERS_1",
	CodeAltStr:         "CISTPL_ALTSTR",
	CodeDeviceA:        "CISTPL_DEVICE_A",
	CodeJEDECC:         "CISTPL_JEDEC_C",
	CodeJEDECA:         "CISTPL_JEDEC_A",
	CodeConfig:         "CISTPL_CONFIG",
	CodeCFTableEntry:   "CISTPL_CFTABLE_ENTRY",
	CodeDeviceOC:       "CISTPL_DEVICE_OC",
	CodeDeviceOA:       "CISTPL_DEVICE_OA",
	CodeDeviceGeo:      "CISTPL_DEVICE_GEO",
	CodeDeviceGeoA:     "CISTPL_DEVICE_GEO_A",
	CodeManfID:         "CISTPL_MANFID",
	CodeFuncID:         "CISTPL_FUNCID",
	CodeFuncE:          "CISTPL_FUNCE",
	CodeSWIL:           "CISTPL_SWIL",
	CodeEnd:            "CISTPL_END",

	CodeVers2:     "CISTPL_VERS_2",
	CodeFormat:    "CISTPL_FORMAT",
	CodeGeometry:  "CISTPL_GEOMETRY",
	CodeByteOrder: "CISTPL_BYTEORDER",
	CodeDate:      "CISTPL_DATE",
	CodeBattery:   "CISTPL_BATTERY",
	CodeFormatA:   "CISTPL_FORMAT_A",

	CodeOrg:  "CISTPL_ORG",
	CodeSPCL: "CISTPL_SPCL",
}

// Name returns the display name, or UnknownName for unassigned codes.
func (c Code) Name() string {
	if n := names[c]; n != "" {
		return n
	}
	return UnknownName
}

// Known reports whether the code has a published assignment.
func (c Code) Known() bool { return names[c] != "" }

func (c Code) String() string {
	return fmt.Sprintf("%s (0x%02x)", c.Name(), byte(c))
}
