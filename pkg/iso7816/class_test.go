package iso7816

import "testing"

func TestNewClass_Decode(t *testing.T) {
	tests := []struct {
		name    string
		raw     byte
		want    Class
		wantErr bool
	}{
		{
			name: "Plain interindustry",
			raw:  0x00,
			want: Class{Raw: 0x00},
		},
		{
			name: "Secure messaging header authenticated",
			raw:  0x0C,
			want: Class{Raw: 0x0C, SecureMessaging: SMHeaderAuth},
		},
		{
			name: "Chained on channel 1",
			raw:  0x11,
			want: Class{Raw: 0x11, IsChained: true, Channel: 1},
		},
		{
			name: "Proprietary passthrough",
			raw:  0x80,
			want: Class{Raw: 0x80, IsProprietary: true},
		},
		{name: "Reserved 0xFF", raw: 0xFF, wantErr: true},
		{name: "Further interindustry unsupported", raw: 0x40, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClass(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClass(0x%02X) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NewClass(0x%02X) = %+v; want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewInterindustryClass_Encode(t *testing.T) {
	tests := []struct {
		name    string
		chained bool
		sm      SMIndication
		channel uint8
		want    byte
	}{
		{"Plain", false, SMNone, 0, 0x00},
		{"SM header authenticated", false, SMHeaderAuth, 0, 0x0C},
		{"SM header not processed", false, SMHeaderNoProc, 0, 0x08},
		{"Chained channel 3", true, SMNone, 3, 0x13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := NewInterindustryClass(tt.chained, tt.sm, tt.channel)
			if err != nil {
				t.Fatalf("NewInterindustryClass failed: %v", err)
			}
			if cls.Raw != tt.want {
				t.Errorf("Raw = 0x%02X; want 0x%02X", cls.Raw, tt.want)
			}
		})
	}
}

func TestNewInterindustryClass_ChannelRange(t *testing.T) {
	if _, err := NewInterindustryClass(false, SMNone, 4); err == nil {
		t.Error("Channel 4 should be rejected")
	}
}

func TestClass_RoundTrip(t *testing.T) {
	for _, raw := range []byte{0x00, 0x0C, 0x08, 0x13, 0x1F} {
		cls, err := NewClass(raw)
		if err != nil {
			t.Fatalf("NewClass(0x%02X) failed: %v", raw, err)
		}
		enc, err := cls.Encode()
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if enc != raw {
			t.Errorf("Round trip 0x%02X -> 0x%02X", raw, enc)
		}
	}
}
