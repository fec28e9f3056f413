package iso7816

import (
	"fmt"
)

// APDU encodings according to ISO/IEC 7816-3 and 7816-4.
//
// A command APDU is a 4-byte header (CLA, INS, P1, P2) followed by an
// optional body:
//   - Lc: number of bytes in the data field.
//   - Data: the command payload.
//   - Le: maximum number of response bytes expected.
//
// Four encoding cases exist depending on which body fields are present:
//   Case 1: header only.
//   Case 2: header + Le.
//   Case 3: header + Lc + data.
//   Case 4: header + Lc + data + Le.
//
// Lc and Le switch to the extended multi-byte encoding when the data exceeds
// 255 bytes or more than 256 response bytes are expected.

// APDU length limits according to ISO 7816-3.
const (
	// MaxShortLc is the largest data length encodable with a 1-byte Lc.
	MaxShortLc = 255

	// MaxShortLe is the largest expected response length encodable with a
	// 1-byte Le. In short mode, 0x00 encodes 256.
	MaxShortLe = 256

	// MaxExtendedLc is the 16-bit limit for Lc in extended mode.
	MaxExtendedLc = 65535

	// MaxExtendedLe is the largest expected response length in extended
	// mode, where 0x0000 encodes 65536.
	MaxExtendedLe = 65536
)

// CommandAPDU represents a command sent to the card. It is fully constructed
// before transmission and not modified afterwards.
type CommandAPDU struct {
	Class       Class
	Instruction Instruction
	P1, P2      byte
	Data        []byte
	Ne          int // Expected response length (0 means none)
}

// NewCommandAPDU creates a basic command.
func NewCommandAPDU(cla Class, ins Instruction, p1, p2 byte, data []byte, ne int) *CommandAPDU {
	return &CommandAPDU{
		Class:       cla,
		Instruction: ins,
		P1:          p1,
		P2:          p2,
		Data:        data,
		Ne:          ne,
	}
}

// Bytes encodes the command into its wire representation, selecting short or
// extended Lc/Le encoding from the data and expected response lengths.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	nc := len(c.Data)
	ne := c.Ne

	if nc > MaxExtendedLc {
		return nil, fmt.Errorf("data field of %d bytes exceeds extended Lc limit", nc)
	}
	if ne > MaxExtendedLe {
		return nil, fmt.Errorf("expected length %d exceeds extended Le limit", ne)
	}

	class, err := c.Class.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode Class: %w", err)
	}

	out := make([]byte, 0, 4+3+nc+3)
	out = append(out, class, byte(c.Instruction.Raw), c.P1, c.P2)

	isExtended := nc > MaxShortLc || ne > MaxShortLe

	if nc > 0 {
		if isExtended {
			// Extended Lc: 00 flag + 2-byte big-endian length
			out = append(out, 0x00, byte(nc>>8), byte(nc))
		} else {
			out = append(out, byte(nc))
		}
		out = append(out, c.Data...)
	}

	if ne > 0 {
		switch {
		case !isExtended && ne == MaxShortLe:
			out = append(out, 0x00) // 0x00 encodes 256
		case !isExtended:
			out = append(out, byte(ne))
		default:
			if nc == 0 {
				// Case 2 extended needs the 00 flag that Lc
				// would otherwise have carried.
				out = append(out, 0x00)
			}
			if ne == MaxExtendedLe {
				out = append(out, 0x00, 0x00) // 0x0000 encodes 65536
			} else {
				out = append(out, byte(ne>>8), byte(ne))
			}
		}
	}

	return out, nil
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("%s | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Instruction.Verbose(), c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the card.
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU parses raw bytes received from the card.
// The input must contain at least the two status bytes.
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	trailer := len(raw) - 2

	return &ResponseAPDU{
		Data:   raw[:trailer],
		Status: NewStatusWord(raw[trailer], raw[trailer+1]),
	}, nil
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}
