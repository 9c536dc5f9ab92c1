package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names a report layout.
type Format string

// Report layouts.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formats lists every layout in the order shown in help text.
func Formats() []Format {
	return []Format{FormatText, FormatTable, FormatJSON}
}

// ParseFormat resolves a format name; the empty name means text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	format := Format(name)
	if !format.IsValid() {
		names := make([]string, 0, len(Formats()))
		for _, f := range Formats() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(names, ", "))
	}
	return format, nil
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f names a known layout.
func (f Format) IsValid() bool {
	return slices.Contains(Formats(), f)
}
