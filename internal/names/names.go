// Package names converts person names between the worksheet encoding
// (I/LAST/FIRST/INITIAL@) and the display form (FIRST INITIAL. LAST).
package names

import (
	"strings"
	"unicode"
)

const (
	worksheetPrefix = "I/"
	worksheetSuffix = "@"
)

// ToDisplay converts "I/GONZALES/ANALYN/D@" into "ANALYN D. GONZALES".
// Anything that is not worksheet-encoded is returned unchanged.
func ToDisplay(code string) string {
	if !strings.HasPrefix(code, worksheetPrefix) {
		return code
	}
	segments := strings.Split(strings.TrimSuffix(code, worksheetSuffix), "/")
	if len(segments) < 3 {
		return code
	}

	last := strings.TrimSpace(segments[1])
	first := strings.TrimSpace(segments[2])
	initial := ""
	if len(segments) > 3 {
		initial = strings.TrimSpace(segments[3])
	}

	display := first
	if initial != "" {
		display += " " + initial + "."
	}
	return strings.TrimSpace(display + " " + last)
}

// ToWorksheetFormat is the heuristic inverse of ToDisplay. The first token
// is taken as the first name, the last token as the last name and the first
// single-letter middle token as the initial, so multi-word names do not
// survive a round trip.
func ToWorksheetFormat(display string) string {
	tokens := strings.Fields(strings.ToUpper(display))
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return worksheetPrefix + tokens[0] + "//" + worksheetSuffix
	}

	first := tokens[0]
	last := tokens[len(tokens)-1]
	initial := ""
	for _, tok := range tokens[1 : len(tokens)-1] {
		tok = strings.TrimSuffix(tok, ".")
		if len([]rune(tok)) == 1 {
			initial = tok
			break
		}
	}
	return worksheetPrefix + last + "/" + first + "/" + initial + worksheetSuffix
}

// Normalize is the comparison key for names: trimmed, upper-cased, with
// internal whitespace runs collapsed to one space.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

// TitleCase renders an upper-case key as "Analyn D. Gonzales".
func TitleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
