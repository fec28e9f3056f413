package mrtd

import (
	"fmt"
)

// ASN.1/BER length fields as they appear at the start of an LDS elementary
// file, right after the outer tag byte. Only the forms a conformant document
// can emit are accepted: files are under 64 KiB, so anything beyond the
// two-byte long form indicates a broken tag.

// DecodeLength parses a short- or long-form length field from the start of b.
// It returns the decoded length and the number of bytes the field occupied.
func DecodeLength(b []byte) (length, size int, err error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("empty length field: %w", ErrCannotDecodeASN1Length)
	}

	switch lead := b[0]; {
	case lead <= 0x7F:
		return int(lead), 1, nil

	case lead == 0x81:
		if len(b) < 2 {
			return 0, 0, fmt.Errorf("truncated 0x81 length field: %w", ErrCannotDecodeASN1Length)
		}
		return int(b[1]), 2, nil

	case lead == 0x82:
		if len(b) < 3 {
			return 0, 0, fmt.Errorf("truncated 0x82 length field: %w", ErrCannotDecodeASN1Length)
		}
		return int(b[1])<<8 | int(b[2]), 3, nil

	default:
		return 0, 0, fmt.Errorf("unsupported length form 0x%02X: %w", lead, ErrCannotDecodeASN1Length)
	}
}

// EncodeLength encodes n in the shortest ASN.1/BER form DecodeLength accepts.
// Negative or oversized values yield nil.
func EncodeLength(n int) []byte {
	switch {
	case n < 0 || n > 0xFFFF:
		return nil
	case n <= 0x7F:
		return []byte{byte(n)}
	case n <= 0xFF:
		return []byte{0x81, byte(n)}
	default:
		return []byte{0x82, byte(n >> 8), byte(n)}
	}
}
