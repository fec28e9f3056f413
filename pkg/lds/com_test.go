package lds

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/docchip/mrtd/pkg/mrtd"
	"github.com/docchip/mrtd/pkg/tlv"
)

func TestParseCOM(t *testing.T) {
	data := tlv.Hex(
		"6015",
		"5F010430313037",     // LDS 01.07
		"5F3606303430303030", // Unicode 04.00.00
		"5C03617563",         // DG1, DG2, DG3
	)

	com, err := ParseCOM(data)
	if err != nil {
		t.Fatalf("ParseCOM failed: %v", err)
	}

	want := &COM{
		LDSVersion:     "1.7",
		UnicodeVersion: "4.0.0",
		DataGroups:     []mrtd.DataGroup{mrtd.DG1, mrtd.DG2, mrtd.DG3},
	}
	if diff := cmp.Diff(want, com); diff != "" {
		t.Errorf("COM mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCOM_SkipsUnknownListTags(t *testing.T) {
	data := tlv.Hex(
		"6006",
		"5C04",
		"61FF7563", // FF maps to no data group
	)

	com, err := ParseCOM(data)
	if err != nil {
		t.Fatalf("ParseCOM failed: %v", err)
	}

	want := []mrtd.DataGroup{mrtd.DG1, mrtd.DG2, mrtd.DG3}
	if diff := cmp.Diff(want, com.DataGroups); diff != "" {
		t.Errorf("data groups mismatch (-want +got):\n%s", diff)
	}
	if com.LDSVersion != "" {
		t.Errorf("unexpected LDS version %q", com.LDSVersion)
	}
}

func TestParseCOM_MissingDataGroupList(t *testing.T) {
	data := tlv.Hex("6007", "5F010430313037")

	_, err := ParseCOM(data)
	if !errors.Is(err, mrtd.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}

func TestParseCOM_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Empty data", nil},
		{"No template", tlv.Hex("5C03617563")},
		{"Truncated TLV", tlv.Hex("60FF5C")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCOM(tc.data); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		raw   string
		parts int
		want  string
	}{
		{"0107", 2, "1.7"},
		{"040000", 3, "4.0.0"},
		{"0107", 3, "0107"},   // wrong width kept verbatim
		{"01XX", 2, "01XX"},   // non-numeric kept verbatim
		{"1800", 2, "18.0"},
	}

	for _, tc := range tests {
		if got := formatVersion([]byte(tc.raw), tc.parts); got != tc.want {
			t.Errorf("formatVersion(%q, %d) = %q, want %q", tc.raw, tc.parts, got, tc.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	com := &COM{
		LDSVersion:     "1.7",
		UnicodeVersion: "4.0.0",
		DataGroups:     []mrtd.DataGroup{mrtd.DG1, mrtd.DG2},
	}

	report := com.Describe()
	for _, want := range []string{"1.7", "4.0.0", "2 present", "DG1", "0101", "DG2", "0102"} {
		if !strings.Contains(report, want) {
			t.Errorf("report is missing %q:\n%s", want, report)
		}
	}
}
