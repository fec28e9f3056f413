package iso7816

import (
	"fmt"

	"github.com/docchip/mrtd/pkg/bits"
)

// Status word (SW1-SW2) logic according to ISO/IEC 7816-4.
//
// Most status words are static 2-byte values (0x9000 = success), but some
// ranges carry contextual information:
//
//  1. '63CX': the lower nibble of SW2 is a counter, e.g. remaining
//     verification retries.
//  2. '61XX' / '6CXX': transport-level continuation hints. A travel-document
//     session never acts on these: anything other than 0x9000 terminates the
//     operation.

// StatusWord represents the two-byte status trailer returned by the card.
type StatusWord uint16

// NewStatusWord creates a StatusWord from the two trailer bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the high byte of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the low byte of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsSuccess reports whether the command completed successfully. Only 0x9000
// qualifies: the protocol this package serves treats every other status,
// including the 61XX continuation hints, as terminal.
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR
}

// IsWarning reports a warning status (62XX or 63XX).
func (sw StatusWord) IsWarning() bool {
	sw1 := sw.SW1()
	return sw1 == 0x62 || sw1 == 0x63
}

// IsError reports an execution or checking error (64XX to 6FXX).
func (sw StatusWord) IsError() bool {
	sw1 := sw.SW1()
	return sw1 >= 0x64 && sw1 <= 0x6F
}

// IsCounter reports whether SW2 carries a retry counter ('63CX').
func (sw StatusWord) IsCounter() bool {
	if sw.SW1() != 0x63 {
		return false
	}
	return bits.GetRange(sw.SW2(), 8, 5) == 0x0C
}

// Counter returns the '63CX' counter value. Only meaningful when IsCounter
// reports true.
func (sw StatusWord) Counter() int {
	return int(bits.GetRange(sw.SW2(), 4, 1))
}

// Verbose returns a human-readable description of the status word.
func (sw StatusWord) Verbose() string {
	if sw.IsCounter() {
		return fmt.Sprintf("[%04X] Warning: counter = %d", uint16(sw), sw.Counter())
	}

	if desc, ok := swNames[sw]; ok {
		return fmt.Sprintf("[%04X] %s", uint16(sw), desc)
	}

	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.categoryDescription())
}

// categoryDescription provides a fallback description based on SW1.
func (sw StatusWord) categoryDescription() string {
	switch sw.SW1() {
	case 0x61:
		return "Process completed, response bytes available"
	case 0x62:
		return "Warning: NV memory unchanged"
	case 0x63:
		return "Warning: NV memory changed"
	case 0x64:
		return "Execution Error: NV memory unchanged"
	case 0x65:
		return "Execution Error: NV memory changed"
	case 0x66:
		return "Execution Error: Security issue"
	case 0x67:
		return "Checking Error: Wrong length"
	case 0x68:
		return "Checking Error: Function not supported"
	case 0x69:
		return "Checking Error: Command not allowed"
	case 0x6A:
		return "Checking Error: Wrong parameters"
	case 0x6C:
		return "Checking Error: Wrong Le"
	default:
		return "Unknown Status"
	}
}

// Status word codes defined in ISO/IEC 7816-4 that a travel-document session
// encounters.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_WARN_DATA_CORRUPTED StatusWord = 0x6281
	SW_WARN_EOF_REACHED    StatusWord = 0x6282
	SW_WARN_COUNTER_0      StatusWord = 0x63C0

	SW_ERR_MEMORY_FAILURE StatusWord = 0x6581
	SW_ERR_SECURITY_ISSUE StatusWord = 0x6600
	SW_ERR_WRONG_LENGTH   StatusWord = 0x6700

	SW_ERR_SECURE_MESSAGING_NOT_SUPP StatusWord = 0x6882
	SW_ERR_SECURITY_STATUS_NOT_SAT   StatusWord = 0x6982
	SW_ERR_AUTH_METHOD_BLOCKED       StatusWord = 0x6983
	SW_ERR_COND_OF_USE_NOT_SAT       StatusWord = 0x6985
	SW_ERR_SM_OBJ_MISSING            StatusWord = 0x6987
	SW_ERR_SM_OBJ_INCORRECT          StatusWord = 0x6988

	SW_ERR_INCORRECT_PARAMS_DATA StatusWord = 0x6A80
	SW_ERR_FUNC_NOT_SUPPORTED    StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND        StatusWord = 0x6A82
	SW_ERR_INCORRECT_PARAMS_P1P2 StatusWord = 0x6A86
	SW_ERR_REF_DATA_NOT_FOUND    StatusWord = 0x6A88

	SW_ERR_WRONG_P1P2        StatusWord = 0x6B00
	SW_ERR_INS_INVALID       StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED StatusWord = 0x6E00
	SW_ERR_UNKNOWN           StatusWord = 0x6F00
)

var swNames = map[StatusWord]string{
	SW_NO_ERROR: "OK",

	SW_WARN_DATA_CORRUPTED: "Warning: returned data may be corrupted",
	SW_WARN_EOF_REACHED:    "Warning: end of file reached before reading Le bytes",
	SW_WARN_COUNTER_0:      "Warning: counter reached 0",

	SW_ERR_MEMORY_FAILURE: "Memory failure",
	SW_ERR_SECURITY_ISSUE: "Security-related issue",
	SW_ERR_WRONG_LENGTH:   "Wrong length",

	SW_ERR_SECURE_MESSAGING_NOT_SUPP: "Secure messaging not supported",
	SW_ERR_SECURITY_STATUS_NOT_SAT:   "Security status not satisfied",
	SW_ERR_AUTH_METHOD_BLOCKED:       "Authentication method blocked",
	SW_ERR_COND_OF_USE_NOT_SAT:       "Conditions of use not satisfied",
	SW_ERR_SM_OBJ_MISSING:            "Expected secure messaging objects missing",
	SW_ERR_SM_OBJ_INCORRECT:          "Secure messaging data objects incorrect",

	SW_ERR_INCORRECT_PARAMS_DATA: "Incorrect parameters in data field",
	SW_ERR_FUNC_NOT_SUPPORTED:    "Function not supported",
	SW_ERR_FILE_NOT_FOUND:        "File not found",
	SW_ERR_INCORRECT_PARAMS_P1P2: "Incorrect parameters P1-P2",
	SW_ERR_REF_DATA_NOT_FOUND:    "Referenced data not found",

	SW_ERR_WRONG_P1P2:        "Wrong parameters P1-P2",
	SW_ERR_INS_INVALID:       "Instruction code not supported or invalid",
	SW_ERR_CLA_NOT_SUPPORTED: "Class not supported",
	SW_ERR_UNKNOWN:           "No precise diagnosis",
}
