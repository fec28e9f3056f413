// Package lds interprets files of the ICAO Doc 9303 logical data structure
// once they have been read off the chip. It currently covers EF.COM, the
// common data element listing which data groups the document carries.
package lds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docchip/mrtd/pkg/mrtd"
	"github.com/docchip/mrtd/pkg/tlv"
)

const (
	tagLDSVersion     = "5F01"
	tagUnicodeVersion = "5F36"
	tagDataGroupList  = "5C"
)

// COM is the decoded content of EF.COM.
type COM struct {
	LDSVersion     string // e.g. "1.7"
	UnicodeVersion string // e.g. "4.0.0"
	DataGroups     []mrtd.DataGroup
}

// ParseCOM interprets raw bytes read from EF.COM. The data group list (tag
// 5C) is mandatory; the version fields are carried when present. Tags in the
// list that do not map to a known data group are skipped.
func ParseCOM(data []byte) (*COM, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file data")
	}

	packets, err := tlv.Decode(data)
	if err != nil {
		return nil, err
	}

	// The file content is wrapped in the common data template (tag 60).
	template := tlv.Find(packets, "60")
	if template == nil {
		return nil, fmt.Errorf("missing common data template (tag 60)")
	}
	children, err := tlv.Children(template)
	if err != nil {
		return nil, fmt.Errorf("decoding common data template: %w", err)
	}

	com := &COM{}
	if p := tlv.Find(children, tagLDSVersion); p != nil {
		com.LDSVersion = formatVersion(p.Value, 2)
	}
	if p := tlv.Find(children, tagUnicodeVersion); p != nil {
		com.UnicodeVersion = formatVersion(p.Value, 3)
	}

	list := tlv.Find(children, tagDataGroupList)
	if list == nil {
		return nil, fmt.Errorf("data group list (tag 5C): %w", mrtd.ErrMissingField)
	}
	for _, b := range list.Value {
		if dg, ok := mrtd.DataGroupByTag(b); ok {
			com.DataGroups = append(com.DataGroups, dg)
		}
	}

	return com, nil
}

// formatVersion renders ASCII digit pairs like "0107" as "1.7".
func formatVersion(raw []byte, parts int) string {
	if len(raw) != parts*2 {
		return string(raw)
	}
	rendered := make([]string, 0, parts)
	for i := 0; i < len(raw); i += 2 {
		n, err := strconv.Atoi(string(raw[i : i+2]))
		if err != nil {
			return string(raw)
		}
		rendered = append(rendered, strconv.Itoa(n))
	}
	return strings.Join(rendered, ".")
}

// Describe generates a report of the document contents announced by EF.COM.
func (c *COM) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== COMMON DATA (EF.COM) ===\n")

	if c.LDSVersion != "" {
		fmt.Fprintf(&sb, "  LDS Version     : %s\n", c.LDSVersion)
	}
	if c.UnicodeVersion != "" {
		fmt.Fprintf(&sb, "  Unicode Version : %s\n", c.UnicodeVersion)
	}

	fmt.Fprintf(&sb, "  Data Groups     : %d present\n", len(c.DataGroups))
	for _, dg := range c.DataGroups {
		fid, _ := dg.FileID()
		fmt.Fprintf(&sb, "    - %-6s (file %02X%02X)\n", dg, fid[0], fid[1])
	}

	return sb.String()
}
