package iso7816

// Transmitter abstracts the physical card connection: one raw command APDU
// in, one raw response APDU (data + status trailer) or a transport error out.
// *scard.Card satisfies this interface directly.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}
