package bac

import (
	"crypto/sha1"
	"encoding/binary"
	"math/bits"
)

// Key derivation according to ICAO Doc 9303 part 11: a 16-byte seed is
// hashed with a 32-bit counter selecting the key's purpose, and the first 16
// digest bytes become the two DES key halves after parity adjustment.
const (
	kdfEnc uint32 = 1
	kdfMAC uint32 = 2
)

// DeriveDocumentKeys derives the document access keys from the MRZ
// information string: document number, date of birth and date of expiry,
// each followed by its check digit.
func DeriveDocumentKeys(mrzInfo string) (kenc, kmac []byte) {
	digest := sha1.Sum([]byte(mrzInfo))
	seed := digest[:16]
	return deriveKey(seed, kdfEnc), deriveKey(seed, kdfMAC)
}

func deriveKey(seed []byte, counter uint32) []byte {
	h := sha1.New()
	h.Write(seed)

	var c [4]byte
	binary.BigEndian.PutUint32(c[:], counter)
	h.Write(c[:])

	key := h.Sum(nil)[:16]
	adjustParity(key)
	return key
}

// adjustParity forces odd parity on every byte, as DES keys require.
func adjustParity(key []byte) {
	for i, b := range key {
		if bits.OnesCount8(b)%2 == 0 {
			key[i] = b ^ 1
		}
	}
}

// tripleDESKey expands a 2-key 16-byte value into the 24-byte K1-K2-K1 form
// crypto/des expects.
func tripleDESKey(key []byte) []byte {
	expanded := make([]byte, 0, 24)
	expanded = append(expanded, key[:16]...)
	return append(expanded, key[:8]...)
}
