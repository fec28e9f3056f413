package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex constructs a byte slice from a series of hex strings, ignoring spaces
// so fixtures can be written as "00 A4 02 0C". It panics on malformed input
// and is meant for tests and demos, not for card data.
func Hex(parts ...string) []byte {
	joined := strings.ReplaceAll(strings.Join(parts, ""), " ", "")

	data, err := hex.DecodeString(joined)
	if err != nil {
		panic(fmt.Sprintf("invalid input '%s': %v", joined, err))
	}
	return data
}
