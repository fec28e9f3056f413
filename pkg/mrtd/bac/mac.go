package bac

import (
	"crypto/des"
	"fmt"
)

// Retail MAC: ISO/IEC 9797-1 MAC algorithm 3 with DES and padding method 2.
// Single-DES CBC over the padded input with the first key half, then one
// decrypt/encrypt round with the second and first halves on the final block.

// pad appends the 0x80 marker and zero-fills to a block boundary
// (ISO/IEC 9797-1 padding method 2).
func pad(data []byte) []byte {
	out := append(append(make([]byte, 0, len(data)+des.BlockSize), data...), 0x80)
	for len(out)%des.BlockSize != 0 {
		out = append(out, 0x00)
	}
	return out
}

// unpad strips method-2 padding.
func unpad(data []byte) ([]byte, error) {
	for i := len(data) - 1; i >= 0; i-- {
		switch data[i] {
		case 0x00:
			continue
		case 0x80:
			return data[:i], nil
		default:
			return nil, fmt.Errorf("malformed padding at byte %d", i)
		}
	}
	return nil, fmt.Errorf("padding marker not found")
}

// retailMAC computes the 8-byte MAC of data under a 16-byte key. The input
// is padded internally.
func retailMAC(key, data []byte) ([]byte, error) {
	if len(key) != 16 {
		return nil, fmt.Errorf("MAC key must be 16 bytes, got %d", len(key))
	}

	ka, err := des.NewCipher(key[:8])
	if err != nil {
		return nil, err
	}
	kb, err := des.NewCipher(key[8:16])
	if err != nil {
		return nil, err
	}

	padded := pad(data)
	mac := make([]byte, des.BlockSize)
	for i := 0; i < len(padded); i += des.BlockSize {
		for j := 0; j < des.BlockSize; j++ {
			mac[j] ^= padded[i+j]
		}
		ka.Encrypt(mac, mac)
	}

	kb.Decrypt(mac, mac)
	ka.Encrypt(mac, mac)
	return mac, nil
}
