package bac

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchip/mrtd/pkg/mrtd"
	"github.com/docchip/mrtd/pkg/tlv"
)

type scriptedCard struct {
	replies [][]byte
	calls   []string
}

func (c *scriptedCard) Transmit(cmd []byte) ([]byte, error) {
	c.calls = append(c.calls, fmt.Sprintf("%X", cmd))
	if len(c.replies) == 0 {
		return nil, errors.New("unexpected command")
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func ok(payload []byte) []byte {
	return append(append([]byte{}, payload...), 0x90, 0x00)
}

// The full handshake from the ICAO Doc 9303 worked example, with the
// terminal randomness fixed to the published values.
func TestAuthenticate_WorkedExample(t *testing.T) {
	card := &scriptedCard{replies: [][]byte{
		ok(tlv.Hex("4608F91988702212")), // RND.ICC
		ok(tlv.Hex(
			"46B9342A41396CD7386BF5803104D7CE", // E.ICC
			"DC122B9132139BAF2EEDC94EE178534F",
			"2F2D235D074D7449", // M.ICC
		)),
	}}

	session := mrtd.NewSession(card)
	kenc, kmac := DeriveDocumentKeys(workedExampleMRZ)

	err := authenticate(session, kenc, kmac,
		tlv.Hex("781723860C06C226"),                 // RND.IFD
		tlv.Hex("0B795240CB7049B01C19B33E32804F0B"), // K.IFD
	)
	require.NoError(t, err)

	// The MUTUAL AUTHENTICATE command carried E.IFD || M.IFD.
	require.Len(t, card.calls, 2)
	assert.Equal(t, "0084000008", card.calls[0])
	assert.Equal(t,
		"0082000028"+
			"72C29C2371CC9BDB65B779B8E8D37B29ECC154AA56A8799FAE2F498F76ED92F2"+
			"5F1448EEA8AD90A7"+
			"28",
		card.calls[1])

	// The derived envelope matches the published session keys and counter.
	sm, okType := session.SecureMessaging().(*SecureSession)
	require.True(t, okType, "envelope must be attached after the handshake")
	assert.Equal(t, tlv.Hex("979EC13B1CBFE9DCD01AB0FED307EAE5"), sm.ksEnc)
	assert.Equal(t, tlv.Hex("F1CB1F1FB5ADF208806B89DC579DC1F8"), sm.ksMac)
	assert.Equal(t, uint64(0x887022120C06C226), sm.ssc)
}

func TestAuthenticate_RejectsBadCardMAC(t *testing.T) {
	card := &scriptedCard{replies: [][]byte{
		ok(tlv.Hex("4608F91988702212")),
		ok(tlv.Hex(
			"46B9342A41396CD7386BF5803104D7CE",
			"DC122B9132139BAF2EEDC94EE178534F",
			"2F2D235D074D744A", // last MAC byte flipped
		)),
	}}

	session := mrtd.NewSession(card)
	kenc, kmac := DeriveDocumentKeys(workedExampleMRZ)

	err := authenticate(session, kenc, kmac,
		tlv.Hex("781723860C06C226"),
		tlv.Hex("0B795240CB7049B01C19B33E32804F0B"))
	assert.ErrorIs(t, err, mrtd.ErrChecksum)
	assert.Nil(t, session.SecureMessaging(), "no envelope on a failed handshake")
}

func TestAuthenticate_RejectsShortChallenge(t *testing.T) {
	card := &scriptedCard{replies: [][]byte{ok(tlv.Hex("0102030405"))}}

	err := Authenticate(mrtd.NewSession(card), make([]byte, 16), make([]byte, 16))
	assert.ErrorIs(t, err, mrtd.ErrInvalidResponse)
}

func TestAuthenticate_PropagatesCardRefusal(t *testing.T) {
	card := &scriptedCard{replies: [][]byte{{0x69, 0x82}}} // security status not satisfied

	err := Authenticate(mrtd.NewSession(card), make([]byte, 16), make([]byte, 16))
	assert.ErrorIs(t, err, mrtd.ErrInvalidResponse)
}
