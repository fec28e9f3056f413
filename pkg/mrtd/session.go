package mrtd

import (
	"fmt"

	"github.com/docchip/mrtd/pkg/iso7816"
)

// maxChunkLen is the ceiling for one READ BINARY chunk, the largest
// short-form Le that still leaves room for the secure-messaging envelope in
// the protected response.
const maxChunkLen = 0xDF

// headerProbeLen is the fixed size of the initial read that captures the
// file's outer tag and its complete length field.
const headerProbeLen = 4

// Session drives the APDU conversation with one contactless travel document.
// It supports a single logical operation in flight at a time; the protocol
// is strictly request/response and chunk reads are issued sequentially in
// ascending offset order. Distinct sessions are independent.
type Session struct {
	card  iso7816.Transmitter
	sm    SecureMessaging
	trace iso7816.Trace
}

// NewSession creates a session over the given transport.
func NewSession(card iso7816.Transmitter) *Session {
	return &Session{card: card}
}

// SetSecureMessaging attaches (or, with nil, detaches) the envelope through
// which every subsequent exchange passes. Normally called by the bac
// subpackage after a successful handshake.
func (s *Session) SetSecureMessaging(sm SecureMessaging) {
	s.sm = sm
}

// SecureMessaging returns the currently attached envelope, or nil.
func (s *Session) SecureMessaging() SecureMessaging {
	return s.sm
}

// LastTrace returns the transactions recorded during the most recent
// operation. The trace holds the logical (unprotected) conversation.
func (s *Session) LastTrace() iso7816.Trace {
	return s.trace
}

// send is the single choke point through which every command passes:
// protect, transmit, unprotect, classify. Transport errors propagate
// verbatim; any status other than 0x9000 fails with a StatusError and the
// payload is discarded.
func (s *Session) send(cmd *iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
	if s.card == nil {
		return nil, ErrNoTag
	}

	wire := cmd
	if s.sm != nil {
		protected, err := s.sm.Protect(cmd)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProtect, err)
		}
		wire = protected
	}

	rawCmd, err := wire.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := s.card.Transmit(rawCmd)
	if err != nil {
		return nil, err
	}

	resp, err := iso7816.ParseResponseAPDU(rawResp)
	if err != nil {
		return nil, err
	}

	if s.sm != nil {
		unprotected, err := s.sm.Unprotect(resp)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnprotect, err)
		}
		resp = unprotected
	}

	s.trace = append(s.trace, iso7816.Transaction{Command: cmd, Response: resp})

	if !resp.Status.IsSuccess() {
		return nil, &StatusError{SW: resp.Status}
	}

	return resp, nil
}

// ReadDataGroup retrieves the full content of a data group file. It selects
// the file, probes the 4-byte header, decodes the declared length, then
// reads the remainder in bounded chunks. The returned buffer holds the
// header bytes plus all chunk bytes; on any failure nothing is returned.
func (s *Session) ReadDataGroup(dg DataGroup) ([]byte, error) {
	s.trace = nil

	fileID, err := dg.FileID()
	if err != nil {
		return nil, err
	}

	selectCmd, err := iso7816.SelectFile(fileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.send(selectCmd); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", dg, err)
	}

	probe, err := iso7816.ReadBinary(0, headerProbeLen)
	if err != nil {
		return nil, err
	}
	resp, err := s.send(probe)
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", dg, err)
	}
	if len(resp.Data) < headerProbeLen {
		return nil, fmt.Errorf("%s header is %d bytes: %w", dg, len(resp.Data), ErrInvalidASN1Value)
	}
	if len(resp.Data) > headerProbeLen {
		return nil, fmt.Errorf("%s header: requested %d, got %d: %w", dg, headerProbeLen, len(resp.Data), ErrReadOverrun)
	}

	header := resp.Data
	length, size, err := DecodeLength(header[1:])
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", dg, err)
	}

	buf := append(make([]byte, 0, headerProbeLen+length), header...)

	// Skip the outer tag byte and the length field; everything after is
	// the declared content.
	offset := size + 1
	remaining := length

	for remaining > 0 {
		ne := remaining
		if ne > maxChunkLen {
			ne = maxChunkLen
		}

		chunkCmd, err := iso7816.ReadBinary(offset, ne)
		if err != nil {
			return nil, err
		}
		chunk, err := s.send(chunkCmd)
		if err != nil {
			return nil, fmt.Errorf("reading %s at offset %d: %w", dg, offset, err)
		}

		n := len(chunk.Data)
		if n == 0 {
			return nil, fmt.Errorf("empty chunk at offset %d: %w", offset, ErrInvalidResponse)
		}
		if n > ne {
			return nil, fmt.Errorf("chunk at offset %d: requested %d, got %d: %w", offset, ne, n, ErrReadOverrun)
		}

		// A short chunk advances by the bytes actually received so the
		// next offset stays in sync with the card.
		buf = append(buf, chunk.Data...)
		offset += n
		remaining -= n
	}

	return buf, nil
}

// GetChallenge asks the card for 8 random bytes, the opening move of the
// access-control handshake.
func (s *Session) GetChallenge() (*iso7816.ResponseAPDU, error) {
	s.trace = nil
	return s.send(iso7816.GetChallenge())
}

// MutualAuthenticate sends the caller-supplied challenge response and
// returns the card's authentication data.
func (s *Session) MutualAuthenticate(data []byte) (*iso7816.ResponseAPDU, error) {
	s.trace = nil

	cmd, err := iso7816.ExternalAuthenticate(data)
	if err != nil {
		return nil, err
	}
	return s.send(cmd)
}
