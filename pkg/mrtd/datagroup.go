package mrtd

import "fmt"

// DataGroup identifies one named file of the logical data structure (LDS)
// on a travel document.
type DataGroup int

const (
	// COM is the common data element listing the data groups present.
	COM DataGroup = iota
	DG1
	DG2
	DG3
	DG4
	DG5
	DG6
	DG7
	DG8
	DG9
	DG10
	DG11
	DG12
	DG13
	DG14
	DG15
	DG16
	// SOD is the document security object.
	SOD
)

// fileIDs maps each data group to its 2-byte elementary-file identifier.
var fileIDs = map[DataGroup][2]byte{
	COM:  {0x01, 0x1E},
	DG1:  {0x01, 0x01},
	DG2:  {0x01, 0x02},
	DG3:  {0x01, 0x03},
	DG4:  {0x01, 0x04},
	DG5:  {0x01, 0x05},
	DG6:  {0x01, 0x06},
	DG7:  {0x01, 0x07},
	DG8:  {0x01, 0x08},
	DG9:  {0x01, 0x09},
	DG10: {0x01, 0x0A},
	DG11: {0x01, 0x0B},
	DG12: {0x01, 0x0C},
	DG13: {0x01, 0x0D},
	DG14: {0x01, 0x0E},
	DG15: {0x01, 0x0F},
	DG16: {0x01, 0x10},
	SOD:  {0x01, 0x1D},
}

// ldsTags maps each data group to the outer tag its file content starts
// with, which is also how EF.COM's tag list names the groups.
var ldsTags = map[DataGroup]byte{
	COM:  0x60,
	DG1:  0x61,
	DG2:  0x75,
	DG3:  0x63,
	DG4:  0x76,
	DG5:  0x65,
	DG6:  0x66,
	DG7:  0x67,
	DG8:  0x68,
	DG9:  0x69,
	DG10: 0x6A,
	DG11: 0x6B,
	DG12: 0x6C,
	DG13: 0x6D,
	DG14: 0x6E,
	DG15: 0x6F,
	DG16: 0x70,
	SOD:  0x77,
}

// FileID returns the elementary-file identifier of the data group.
func (dg DataGroup) FileID() ([]byte, error) {
	fid, ok := fileIDs[dg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDataGroup, dg)
	}
	return []byte{fid[0], fid[1]}, nil
}

// Tag returns the LDS outer tag of the data group, or 0 for unknown groups.
func (dg DataGroup) Tag() byte {
	return ldsTags[dg]
}

// DataGroupByTag resolves an LDS outer tag back to its data group.
func DataGroupByTag(tag byte) (DataGroup, bool) {
	for dg, t := range ldsTags {
		if t == tag {
			return dg, true
		}
	}
	return 0, false
}

func (dg DataGroup) String() string {
	switch {
	case dg == COM:
		return "EF.COM"
	case dg == SOD:
		return "EF.SOD"
	case dg >= DG1 && dg <= DG16:
		return fmt.Sprintf("DG%d", int(dg))
	default:
		return fmt.Sprintf("DataGroup(%d)", int(dg))
	}
}
