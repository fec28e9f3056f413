package iso7816

import (
	"fmt"

	"github.com/docchip/mrtd/pkg/bits"
)

// Instruction byte (INS) logic according to ISO/IEC 7816-4.
//
// INS values whose upper nibble is '6' or '9' are invalid: those ranges are
// reserved for status words and transport-layer control (ISO/IEC 7816-3).
// For interindustry commands, bit 1 of the INS byte indicates whether the
// data field is BER-TLV encoded (e.g. READ BINARY 0xB0 vs 0xB1).

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Instruction codes used by a travel-document session, as defined in
// ISO/IEC 7816-4.
const (
	INS_VERIFY                      InsCode = 0x20
	INS_MANAGE_SECURITY_ENVIRONMENT InsCode = 0x22
	INS_EXTERNAL_AUTHENTICATE       InsCode = 0x82
	INS_GET_CHALLENGE               InsCode = 0x84
	INS_GENERAL_AUTHENTICATE        InsCode = 0x86
	INS_INTERNAL_AUTHENTICATE       InsCode = 0x88
	INS_SELECT                      InsCode = 0xA4
	INS_READ_BINARY                 InsCode = 0xB0
	INS_READ_BINARY_BER             InsCode = 0xB1
	INS_GET_RESPONSE                InsCode = 0xC0
	INS_UPDATE_BINARY               InsCode = 0xD6
)

// insNames maps the codes above to their standard names.
var insNames = map[InsCode]string{
	INS_VERIFY:                      "VERIFY",
	INS_MANAGE_SECURITY_ENVIRONMENT: "MANAGE SECURITY ENVIRONMENT",
	INS_EXTERNAL_AUTHENTICATE:       "EXTERNAL AUTHENTICATE",
	INS_GET_CHALLENGE:               "GET CHALLENGE",
	INS_GENERAL_AUTHENTICATE:        "GENERAL AUTHENTICATE",
	INS_INTERNAL_AUTHENTICATE:       "INTERNAL AUTHENTICATE",
	INS_SELECT:                      "SELECT",
	INS_READ_BINARY:                 "READ BINARY",
	INS_READ_BINARY_BER:             "READ BINARY (BER-TLV)",
	INS_GET_RESPONSE:                "GET RESPONSE",
	INS_UPDATE_BINARY:               "UPDATE BINARY",
}

// Instruction represents the parsed ISO 7816-4 instruction byte (INS).
type Instruction struct {
	Raw      InsCode
	IsBERTLV bool
}

// NewInstruction creates an Instruction with validation, rejecting the
// reserved '6X' and '9X' ranges.
func NewInstruction(ins InsCode) (Instruction, error) {
	highNibble := byte(ins) & 0xF0
	if highNibble == 0x60 || highNibble == 0x90 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", ins)
	}

	return Instruction{
		Raw:      ins,
		IsBERTLV: bits.IsSet(byte(ins), 1),
	}, nil
}

// Verbose returns the standard command name, or the hex value for codes this
// package has no name for.
func (i Instruction) Verbose() string {
	if name, ok := insNames[i.Raw]; ok {
		return name
	}
	return fmt.Sprintf("INS 0x%02X", byte(i.Raw))
}
