package shops

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxNameLength   = 80
	minWhatsAppLen  = 9
	maxWhatsAppLen  = 15
	maxLocationRune = 80
)

// normalizeLocation collapses whitespace and title-cases the location so
// "east legon" and "East  Legon" are stored identically.
func normalizeLocation(raw string) string {
	collapsed := strings.Join(strings.Fields(raw), " ")
	if collapsed == "" {
		return ""
	}
	return cases.Title(language.English).String(collapsed)
}

// normalizeName trims and collapses inner whitespace while keeping the owner's casing.
func normalizeName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// normalizeWhatsApp keeps digits only.
func normalizeWhatsApp(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
