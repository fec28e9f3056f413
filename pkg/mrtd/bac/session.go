package bac

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/docchip/mrtd/pkg/iso7816"
	"github.com/docchip/mrtd/pkg/mrtd"
)

// Secure-messaging data object tags (ISO 7816-4 SM, as profiled by Doc 9303).
const (
	tagEncryptedData = 0x87 // padding indicator + 3DES-CBC ciphertext
	tagExpectedLen   = 0x97 // Le of the wrapped command
	tagStatus        = 0x99 // status word of the wrapped response
	tagMAC           = 0x8E // retail MAC over SSC and the other objects
)

// SecureSession is the 3DES secure-messaging envelope established by the
// Basic Access Control handshake. It implements mrtd.SecureMessaging.
//
// The send sequence counter increments once per protected command and once
// per unprotected response, keeping terminal and card in lockstep.
type SecureSession struct {
	ksEnc []byte
	ksMac []byte
	ssc   uint64
}

// NewSecureSession creates an envelope from the 16-byte session keys and the
// initial send sequence counter.
func NewSecureSession(ksEnc, ksMac []byte, ssc uint64) *SecureSession {
	return &SecureSession{
		ksEnc: append([]byte(nil), ksEnc...),
		ksMac: append([]byte(nil), ksMac...),
		ssc:   ssc,
	}
}

func (s *SecureSession) sscBytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], s.ssc)
	return b[:]
}

// Protect wraps a command: the header is masked to indicate secure
// messaging, the data field becomes DO'87', the expected length DO'97', and
// DO'8E' carries the MAC binding them to the sequence counter.
func (s *SecureSession) Protect(cmd *iso7816.CommandAPDU) (*iso7816.CommandAPDU, error) {
	cls, err := iso7816.NewInterindustryClass(false, iso7816.SMHeaderAuth, 0)
	if err != nil {
		return nil, err
	}

	header := []byte{cls.Raw, byte(cmd.Instruction.Raw), cmd.P1, cmd.P2}

	var do87 []byte
	if len(cmd.Data) > 0 {
		enc, err := encrypt3DESCBC(s.ksEnc, pad(cmd.Data))
		if err != nil {
			return nil, err
		}
		value := append([]byte{0x01}, enc...)
		do87 = append([]byte{tagEncryptedData}, mrtd.EncodeLength(len(value))...)
		do87 = append(do87, value...)
	}

	var do97 []byte
	if cmd.Ne > 0 {
		if cmd.Ne > iso7816.MaxShortLe {
			return nil, fmt.Errorf("expected length %d not encodable under secure messaging", cmd.Ne)
		}
		le := byte(cmd.Ne)
		if cmd.Ne == iso7816.MaxShortLe {
			le = 0x00
		}
		do97 = []byte{tagExpectedLen, 0x01, le}
	}

	s.ssc++

	macInput := append(s.sscBytes(), pad(header)...)
	macInput = append(macInput, do87...)
	macInput = append(macInput, do97...)
	mac, err := retailMAC(s.ksMac, macInput)
	if err != nil {
		return nil, err
	}

	data := append(append(do87, do97...), tagMAC, 0x08)
	data = append(data, mac...)

	return iso7816.NewCommandAPDU(cls, cmd.Instruction, cmd.P1, cmd.P2, data, iso7816.MaxShortLe), nil
}

// Unprotect verifies and unwraps a protected response, returning the inner
// payload with the status word carried by DO'99'.
func (s *SecureSession) Unprotect(resp *iso7816.ResponseAPDU) (*iso7816.ResponseAPDU, error) {
	s.ssc++

	var do87, do99, mac []byte

	data := resp.Data
	for len(data) > 0 {
		tag := data[0]
		length, size, err := mrtd.DecodeLength(data[1:])
		if err != nil {
			return nil, err
		}
		end := 1 + size + length
		if end > len(data) {
			return nil, fmt.Errorf("data object 0x%02X overruns response: %w", tag, mrtd.ErrInvalidASN1Value)
		}

		switch tag {
		case tagEncryptedData:
			do87 = data[:end]
		case tagStatus:
			do99 = data[:end]
		case tagMAC:
			mac = data[1+size : end]
		}
		data = data[end:]
	}

	if do99 == nil || mac == nil {
		return nil, fmt.Errorf("protected response without DO'99' or DO'8E': %w", mrtd.ErrMissingField)
	}

	macInput := append(s.sscBytes(), do87...)
	macInput = append(macInput, do99...)
	wantMAC, err := retailMAC(s.ksMac, macInput)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(wantMAC, mac) {
		return nil, fmt.Errorf("response MAC mismatch: %w", mrtd.ErrChecksum)
	}

	if len(do99) != 4 {
		return nil, fmt.Errorf("DO'99' is %d bytes: %w", len(do99), mrtd.ErrInvalidASN1Value)
	}
	status := do99[2:]

	var payload []byte
	if do87 != nil {
		_, size, _ := mrtd.DecodeLength(do87[1:])
		value := do87[1+size:]
		if len(value) == 0 || value[0] != 0x01 {
			return nil, fmt.Errorf("DO'87' without padding indicator: %w", mrtd.ErrInvalidASN1Value)
		}
		dec, err := decrypt3DESCBC(s.ksEnc, value[1:])
		if err != nil {
			return nil, err
		}
		payload, err = unpad(dec)
		if err != nil {
			return nil, fmt.Errorf("decrypted payload: %w: %v", mrtd.ErrInvalidASN1Value, err)
		}
	}

	return &iso7816.ResponseAPDU{
		Data:   payload,
		Status: iso7816.NewStatusWord(status[0], status[1]),
	}, nil
}
