package bac

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchip/mrtd/pkg/iso7816"
	"github.com/docchip/mrtd/pkg/mrtd"
	"github.com/docchip/mrtd/pkg/tlv"
)

// Session keys and starting counter from the ICAO Doc 9303 worked example.
func workedExampleSession() *SecureSession {
	return NewSecureSession(
		tlv.Hex("979EC13B1CBFE9DCD01AB0FED307EAE5"),
		tlv.Hex("F1CB1F1FB5ADF208806B89DC579DC1F8"),
		0x887022120C06C226,
	)
}

func TestProtect_SelectWorkedExample(t *testing.T) {
	sm := workedExampleSession()

	cmd, err := iso7816.SelectFile(tlv.Hex("011E"))
	require.NoError(t, err)

	protected, err := sm.Protect(cmd)
	require.NoError(t, err)

	raw, err := protected.Bytes()
	require.NoError(t, err)
	assert.Equal(t, tlv.Hex(
		"0CA4020C15",
		"8709016375432908C044F6",
		"8E08BF8B92D635FF24F8",
		"00",
	), raw)
	assert.Equal(t, uint64(0x887022120C06C227), sm.ssc)
}

func TestUnprotect_SelectWorkedExample(t *testing.T) {
	sm := workedExampleSession()
	sm.ssc = 0x887022120C06C227 // as after protecting the SELECT

	resp, err := iso7816.ParseResponseAPDU(tlv.Hex("990290008E08FA855A5D4C50A8ED9000"))
	require.NoError(t, err)

	inner, err := sm.Unprotect(resp)
	require.NoError(t, err)
	assert.True(t, inner.Status.IsSuccess())
	assert.Empty(t, inner.Data)
	assert.Equal(t, uint64(0x887022120C06C228), sm.ssc)
}

func TestUnprotect_BadMAC(t *testing.T) {
	sm := workedExampleSession()
	sm.ssc = 0x887022120C06C227

	resp, err := iso7816.ParseResponseAPDU(tlv.Hex("990290008E08FA855A5D4C50A8EE9000"))
	require.NoError(t, err)

	_, err = sm.Unprotect(resp)
	assert.ErrorIs(t, err, mrtd.ErrChecksum)
}

func TestUnprotect_MissingMandatoryObjects(t *testing.T) {
	sm := workedExampleSession()

	// A bare MAC without DO'99'.
	resp, err := iso7816.ParseResponseAPDU(tlv.Hex("8E0800000000000000009000"))
	require.NoError(t, err)

	_, err = sm.Unprotect(resp)
	assert.ErrorIs(t, err, mrtd.ErrMissingField)
}

// buildProtectedResponse assembles a card-side response the way the document
// would: encrypted payload in DO'87', status in DO'99', MAC over the counter
// and both objects in DO'8E'.
func buildProtectedResponse(t *testing.T, sm *SecureSession, ssc uint64, payload []byte, sw1, sw2 byte) *iso7816.ResponseAPDU {
	t.Helper()

	enc, err := encrypt3DESCBC(sm.ksEnc, pad(payload))
	require.NoError(t, err)

	value := append([]byte{0x01}, enc...)
	do87 := append([]byte{tagEncryptedData}, mrtd.EncodeLength(len(value))...)
	do87 = append(do87, value...)
	do99 := []byte{tagStatus, 0x02, sw1, sw2}

	var sscBytes [8]byte
	binary.BigEndian.PutUint64(sscBytes[:], ssc)
	macInput := append(sscBytes[:], do87...)
	macInput = append(macInput, do99...)
	mac, err := retailMAC(sm.ksMac, macInput)
	require.NoError(t, err)

	data := append(append(do87, do99...), tagMAC, 0x08)
	data = append(data, mac...)

	return &iso7816.ResponseAPDU{Data: data, Status: iso7816.SW_NO_ERROR}
}

func TestProtectUnprotect_RoundTripWithPayload(t *testing.T) {
	sm := workedExampleSession()

	cmd, err := iso7816.ReadBinary(4, 10)
	require.NoError(t, err)

	protected, err := sm.Protect(cmd)
	require.NoError(t, err)
	assert.Equal(t, byte(0x0C), protected.Class.Raw)
	assert.Equal(t, iso7816.MaxShortLe, protected.Ne)

	payload := tlv.Hex("00112233445566778899")
	resp := buildProtectedResponse(t, sm, sm.ssc+1, payload, 0x90, 0x00)

	inner, err := sm.Unprotect(resp)
	require.NoError(t, err)
	assert.Equal(t, payload, inner.Data)
	assert.True(t, inner.Status.IsSuccess())
}

func TestUnprotect_CarriesInnerStatus(t *testing.T) {
	sm := workedExampleSession()
	sm.ssc = 0x1000

	do99 := []byte{tagStatus, 0x02, 0x6A, 0x82}
	var sscBytes [8]byte
	binary.BigEndian.PutUint64(sscBytes[:], 0x1001)
	mac, err := retailMAC(sm.ksMac, append(sscBytes[:], do99...))
	require.NoError(t, err)

	data := append(do99, tagMAC, 0x08)
	data = append(data, mac...)

	inner, err := sm.Unprotect(&iso7816.ResponseAPDU{Data: data, Status: iso7816.SW_NO_ERROR})
	require.NoError(t, err)
	assert.Equal(t, iso7816.SW_ERR_FILE_NOT_FOUND, inner.Status)
}
