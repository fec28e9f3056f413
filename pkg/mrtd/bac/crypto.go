package bac

import (
	"crypto/cipher"
	"crypto/des"
	"fmt"
)

// 3DES-CBC with a zero IV, as Basic Access Control prescribes for both the
// handshake and the secure-messaging payloads. Inputs must already be a
// multiple of the block size; padding is the caller's concern because the
// handshake encrypts exact blocks while secure messaging pads first.

var zeroIV = make([]byte, des.BlockSize)

func newTripleDES(key []byte) (cipher.Block, error) {
	if len(key) != 16 {
		return nil, fmt.Errorf("key must be 16 bytes, got %d", len(key))
	}
	return des.NewTripleDESCipher(tripleDESKey(key))
}

func encrypt3DESCBC(key, plaintext []byte) ([]byte, error) {
	block, err := newTripleDES(key)
	if err != nil {
		return nil, err
	}
	if len(plaintext)%des.BlockSize != 0 {
		return nil, fmt.Errorf("plaintext length %d is not block aligned", len(plaintext))
	}

	out := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, zeroIV).CryptBlocks(out, plaintext)
	return out, nil
}

func decrypt3DESCBC(key, ciphertext []byte) ([]byte, error) {
	block, err := newTripleDES(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext)%des.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not block aligned", len(ciphertext))
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, zeroIV).CryptBlocks(out, ciphertext)
	return out, nil
}
