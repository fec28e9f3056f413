// Package bac implements Basic Access Control for machine-readable travel
// documents (ICAO Doc 9303 part 11): deriving the document access keys from
// the machine-readable zone, running the challenge handshake, and the 3DES
// secure-messaging envelope the handshake establishes.
package bac

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/docchip/mrtd/pkg/mrtd"
)

// Authenticate runs the Basic Access Control handshake on the session using
// the document access keys and, on success, attaches the derived
// secure-messaging envelope to it. kenc and kmac come from
// DeriveDocumentKeys.
func Authenticate(s *mrtd.Session, kenc, kmac []byte) error {
	rndIFD := make([]byte, 8)
	kIFD := make([]byte, 16)
	if _, err := rand.Read(rndIFD); err != nil {
		return fmt.Errorf("generating terminal challenge: %w", err)
	}
	if _, err := rand.Read(kIFD); err != nil {
		return fmt.Errorf("generating key material: %w", err)
	}

	return authenticate(s, kenc, kmac, rndIFD, kIFD)
}

// authenticate is the deterministic core of the handshake, split out so
// tests can fix the terminal randomness.
func authenticate(s *mrtd.Session, kenc, kmac, rndIFD, kIFD []byte) error {
	resp, err := s.GetChallenge()
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}
	if len(resp.Data) != 8 {
		return fmt.Errorf("challenge is %d bytes: %w", len(resp.Data), mrtd.ErrInvalidResponse)
	}
	rndICC := resp.Data

	// S = RND.IFD || RND.ICC || K.IFD, encrypted and MACed for the card.
	plain := make([]byte, 0, 32)
	plain = append(plain, rndIFD...)
	plain = append(plain, rndICC...)
	plain = append(plain, kIFD...)

	eIFD, err := encrypt3DESCBC(kenc, plain)
	if err != nil {
		return fmt.Errorf("encrypting handshake: %w", err)
	}
	mIFD, err := retailMAC(kmac, eIFD)
	if err != nil {
		return fmt.Errorf("signing handshake: %w", err)
	}

	authResp, err := s.MutualAuthenticate(append(eIFD, mIFD...))
	if err != nil {
		return fmt.Errorf("mutual authenticate: %w", err)
	}
	if len(authResp.Data) != 40 {
		return fmt.Errorf("authentication data is %d bytes: %w", len(authResp.Data), mrtd.ErrInvalidResponse)
	}

	eICC, mICC := authResp.Data[:32], authResp.Data[32:]
	wantMAC, err := retailMAC(kmac, eICC)
	if err != nil {
		return fmt.Errorf("verifying card data: %w", err)
	}
	if !bytes.Equal(wantMAC, mICC) {
		return fmt.Errorf("card authentication data: %w", mrtd.ErrChecksum)
	}

	dec, err := decrypt3DESCBC(kenc, eICC)
	if err != nil {
		return fmt.Errorf("decrypting card data: %w", err)
	}

	// dec = RND.ICC || RND.IFD || K.ICC; the echoed RND.IFD proves the
	// card saw our challenge.
	if !bytes.Equal(dec[8:16], rndIFD) {
		return fmt.Errorf("card did not echo terminal challenge: %w", mrtd.ErrInvalidResponse)
	}
	kICC := dec[16:32]

	seed := make([]byte, 16)
	for i := range seed {
		seed[i] = kIFD[i] ^ kICC[i]
	}

	ssc := binary.BigEndian.Uint64(append(append([]byte{}, rndICC[4:]...), rndIFD[4:]...))

	s.SetSecureMessaging(NewSecureSession(deriveKey(seed, kdfEnc), deriveKey(seed, kdfMAC), ssc))
	return nil
}
