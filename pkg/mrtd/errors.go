package mrtd

import (
	"errors"
	"fmt"

	"github.com/docchip/mrtd/pkg/iso7816"
)

// Error taxonomy for the data-group transport layer. Failures from
// collaborators (transport, decoder, secure messaging) are propagated to the
// caller with at most one wrapping layer mapping them onto these sentinels;
// no failure is retried and no partial result accompanies an error.
var (
	// ErrNoTag means no transport is attached to the session; the caller
	// must reconnect before retrying.
	ErrNoTag = errors.New("no connected tag")

	// ErrUnsupportedDataGroup means the requested data group has no file
	// identifier in the catalog. Programmer error, not retried.
	ErrUnsupportedDataGroup = errors.New("unsupported data group")

	// ErrInvalidResponse means the card answered with a status word other
	// than 0x9000. The response payload is discarded.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrCannotDecodeASN1Length means a length field used an unsupported
	// form or ran out of bytes.
	ErrCannotDecodeASN1Length = errors.New("cannot decode ASN.1 length")

	// ErrInvalidASN1Value means a file header or data object was
	// malformed: either the tag is non-conformant or an offset is wrong.
	ErrInvalidASN1Value = errors.New("invalid ASN.1 value")

	// ErrProtect and ErrUnprotect flag secure-messaging transform
	// failures. A broken security state cannot be trusted for further
	// traffic, so these are terminal for the session.
	ErrProtect   = errors.New("unable to protect APDU")
	ErrUnprotect = errors.New("unable to unprotect APDU")

	// ErrChecksum means a secure-messaging checksum did not verify.
	ErrChecksum = errors.New("invalid response checksum")

	// ErrMissingField means a mandatory data object was absent from a
	// protected response or parsed structure.
	ErrMissingField = errors.New("missing mandatory fields")

	// ErrReadOverrun means a chunk response carried more bytes than were
	// requested, which this protocol treats as a violation rather than
	// silently accepting the overflow.
	ErrReadOverrun = errors.New("read returned more bytes than requested")
)

// StatusError reports a non-success status word. It matches
// ErrInvalidResponse under errors.Is.
type StatusError struct {
	SW iso7816.StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid response: %s", e.SW.Verbose())
}

func (e *StatusError) Is(target error) bool {
	return target == ErrInvalidResponse
}
