package iso7816

import (
	"fmt"
)

// Builders for the command shapes a travel-document session issues. Each
// builder validates its inputs and fails rather than silently truncating or
// padding; the returned command is ready for transmission.

// SELECT FILE parameter bytes: P1 0x02 selects an elementary file under the
// current dedicated file by its 2-byte identifier, P2 0x0C requests no
// response data (no FCI).
const (
	selectEFByFileID   byte = 0x02
	selectNoResponse   byte = 0x0C
	challengeLength         = 8
	authResponseLength      = 40
)

// maxReadBinaryOffset is the largest offset encodable in P1-P2: bit 8 of P1
// must stay clear, a set bit 8 would switch the command to short-EF
// addressing.
const maxReadBinaryOffset = 0x7FFF

// SelectFile builds a SELECT FILE command for an elementary file identified
// by exactly two bytes.
func SelectFile(fileID []byte) (*CommandAPDU, error) {
	if len(fileID) != 2 {
		return nil, fmt.Errorf("file identifier must be 2 bytes, got %d", len(fileID))
	}

	cls, _ := NewClass(0x00)
	ins, _ := NewInstruction(INS_SELECT)

	return NewCommandAPDU(cls, ins, selectEFByFileID, selectNoResponse, fileID, 0), nil
}

// ReadBinary builds a READ BINARY command requesting ne bytes of the
// currently selected transparent file, starting at offset.
func ReadBinary(offset, ne int) (*CommandAPDU, error) {
	if offset < 0 || offset > maxReadBinaryOffset {
		return nil, fmt.Errorf("offset %d out of range (max %d)", offset, maxReadBinaryOffset)
	}
	if ne < 1 || ne > MaxShortLe {
		return nil, fmt.Errorf("expected length %d out of range (1 to %d)", ne, MaxShortLe)
	}

	cls, _ := NewClass(0x00)
	ins, _ := NewInstruction(INS_READ_BINARY)

	return NewCommandAPDU(cls, ins, byte(offset>>8), byte(offset), nil, ne), nil
}

// GetChallenge builds a GET CHALLENGE command requesting 8 random bytes from
// the card.
func GetChallenge() *CommandAPDU {
	cls, _ := NewClass(0x00)
	ins, _ := NewInstruction(INS_GET_CHALLENGE)

	return NewCommandAPDU(cls, ins, 0x00, 0x00, nil, challengeLength)
}

// ExternalAuthenticate builds an EXTERNAL AUTHENTICATE command carrying the
// caller-supplied challenge response. The card answers with 40 bytes of
// authentication data.
func ExternalAuthenticate(data []byte) (*CommandAPDU, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("authentication data must not be empty")
	}

	cls, _ := NewClass(0x00)
	ins, _ := NewInstruction(INS_EXTERNAL_AUTHENTICATE)

	return NewCommandAPDU(cls, ins, 0x00, 0x00, data, authResponseLength), nil
}
