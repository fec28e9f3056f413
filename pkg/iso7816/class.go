package iso7816

import (
	"fmt"

	"github.com/docchip/mrtd/pkg/bits"
)

// Class Byte (CLA) structure according to ISO/IEC 7816-4, first
// interindustry range (00xx xxxx):
//
//	Bit 8:    Proprietary (1) or interindustry (0).
//	Bit 5:    Command chaining (0 = last/only, 1 = more follow).
//	Bits 4-3: Secure messaging indication.
//	Bits 2-1: Logical channel number (0-3).
//
// A contactless travel document only ever uses channel 0, so the further
// interindustry range (channels 4-19) is not modelled here.

// SMIndication is the secure-messaging indication carried in CLA bits 4-3.
type SMIndication byte

const (
	// SMNone indicates no secure messaging or no indication given.
	SMNone SMIndication = 0
	// SMProprietary indicates a proprietary secure messaging format.
	SMProprietary SMIndication = 1
	// SMHeaderNoProc indicates ISO secure messaging, header not processed.
	SMHeaderNoProc SMIndication = 2
	// SMHeaderAuth indicates ISO secure messaging, header authenticated.
	// Combined with channel 0 and no chaining this encodes to CLA 0x0C.
	SMHeaderAuth SMIndication = 3
)

// Class represents the parsed ISO 7816-4 Class byte (CLA).
type Class struct {
	Raw             byte
	IsProprietary   bool
	IsChained       bool
	SecureMessaging SMIndication
	Channel         uint8
}

// NewClass creates a Class object by decoding a raw CLA byte.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	c := Class{Raw: cla}

	if bits.IsSet(cla, 8) {
		c.IsProprietary = true
		return c, nil
	}

	if bits.IsSet(cla, 7) {
		return Class{}, fmt.Errorf("CLA 0x%02X: further interindustry range not supported", cla)
	}

	c.IsChained = bits.IsSet(cla, 5)
	c.SecureMessaging = SMIndication(bits.GetRange(cla, 4, 3))
	c.Channel = bits.GetRange(cla, 2, 1)

	return c, nil
}

// NewInterindustryClass creates a first-interindustry Class from parameters.
func NewInterindustryClass(isChained bool, sm SMIndication, channel uint8) (Class, error) {
	if channel > 3 {
		return Class{}, fmt.Errorf("channel %d out of range (max 3)", channel)
	}

	c := Class{
		IsChained:       isChained,
		SecureMessaging: sm,
		Channel:         channel,
	}

	raw, err := c.Encode()
	if err != nil {
		return Class{}, err
	}
	c.Raw = raw

	return c, nil
}

// Encode converts the Class object back to its byte representation.
func (c *Class) Encode() (byte, error) {
	if c.IsProprietary {
		return c.Raw, nil
	}

	if c.Channel > 3 {
		return 0, fmt.Errorf("channel %d out of range (max 3)", c.Channel)
	}

	var res byte
	if c.IsChained {
		res = bits.Set(res, 5)
	}
	res |= byte(c.SecureMessaging) << 2
	res |= c.Channel

	return res, nil
}

// Verbose returns a human-readable description of the CLA configuration.
func (c Class) Verbose() string {
	if c.IsProprietary {
		return fmt.Sprintf("Class: Proprietary (0x%02X)", c.Raw)
	}

	smDesc := "Unknown"
	switch c.SecureMessaging {
	case SMNone:
		smDesc = "None"
	case SMProprietary:
		smDesc = "Proprietary"
	case SMHeaderNoProc:
		smDesc = "ISO (Header not processed)"
	case SMHeaderAuth:
		smDesc = "ISO (Header authenticated)"
	}

	chaining := "Last or only command"
	if c.IsChained {
		chaining = "More commands follow (Chaining)"
	}

	return fmt.Sprintf(
		"Chaining: %s\nSecure Messaging: %s\nLogical Channel: %d",
		chaining, smDesc, c.Channel,
	)
}
