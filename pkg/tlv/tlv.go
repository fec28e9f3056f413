// Package tlv provides lookup helpers over github.com/moov-io/bertlv for
// reading values out of BER-TLV encoded card files.
package tlv

import (
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"
)

// Decode parses raw BER-TLV data into its component objects.
func Decode(data []byte) ([]bertlv.TLV, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("bertlv decode failed: %w", err)
	}
	return packets, nil
}

// Find returns the first object with the given hex tag, or nil. The tag
// comparison is case-insensitive.
func Find(packets []bertlv.TLV, tag string) *bertlv.TLV {
	for i := range packets {
		if strings.EqualFold(packets[i].Tag, tag) {
			return &packets[i]
		}
	}
	return nil
}

// Value returns the raw payload of a TLV object. For constructed objects the
// children are re-encoded so the caller always gets plain bytes.
func Value(p *bertlv.TLV) []byte {
	if len(p.TLVs) > 0 {
		if enc, err := bertlv.Encode(p.TLVs); err == nil {
			return enc
		}
	}
	return p.Value
}

// GetValue scans raw BER-TLV data for a tag and returns its payload.
func GetValue(data []byte, tag string) ([]byte, error) {
	packets, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if p := Find(packets, tag); p != nil {
		return Value(p), nil
	}
	return nil, fmt.Errorf("tag %s not found", strings.ToUpper(tag))
}

// Children returns the nested objects of a constructed TLV. Some encoders
// leave the children undecoded in Value; in that case they are decoded here.
func Children(p *bertlv.TLV) ([]bertlv.TLV, error) {
	if len(p.TLVs) > 0 {
		return p.TLVs, nil
	}
	if len(p.Value) == 0 {
		return nil, nil
	}
	return Decode(p.Value)
}
