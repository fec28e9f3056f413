package mrtd

import (
	"github.com/docchip/mrtd/pkg/iso7816"
)

// SecureMessaging is the envelope established by an authentication
// handshake. Once attached to a session, every outgoing command passes
// through Protect and every incoming response through Unprotect; without it,
// commands and responses travel unmodified.
//
// Implementations may keep internal protocol state (send sequence counters);
// the session never mutates them beyond calling the two methods, once each
// per exchange.
type SecureMessaging interface {
	Protect(cmd *iso7816.CommandAPDU) (*iso7816.CommandAPDU, error)
	Unprotect(resp *iso7816.ResponseAPDU) (*iso7816.ResponseAPDU, error)
}
