package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHolderName prepares a cardholder name for embossing. Diacritics
// are removed and the result is uppercased and capped at 30 characters.
// Middle names are reduced to initials when the raw name exceeds the cap.
func NormalizeHolderName(raw string) string {
	names := strings.Fields(stripAccents(raw))
	if len(names) == 0 {
		return ""
	}

	abbreviate := utf8.RuneCountInString(raw) > maxHolderNameLength

	parts := make([]string, 0, len(names))
	parts = append(parts, names[0])
	for i := 1; i < len(names)-1; i++ {
		if abbreviate {
			first, _ := utf8.DecodeRuneInString(names[i])
			parts = append(parts, string(first)+".")
		} else {
			parts = append(parts, names[i])
		}
	}
	if len(names) > 1 {
		parts = append(parts, names[len(names)-1])
	}

	result := strings.ToUpper(strings.Join(parts, " "))
	if utf8.RuneCountInString(result) > maxHolderNameLength {
		result = strings.TrimSpace(string([]rune(result)[:maxHolderNameLength]))
	}
	return result
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return stripped
}
