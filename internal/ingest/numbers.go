package ingest

import (
	"strconv"
	"strings"
)

var currencyMarks = strings.NewReplacer("₱", "", "$", "", "PHP", "", "Php", "", ",", "", " ", "", "%", "")

// ParseNumber reads a spreadsheet figure. Thousands separators, currency
// marks and percent signs are ignored, "(123)" is negative, and blanks or
// dashes are zero. ok is false when the cell holds something else.
func ParseNumber(cell string) (v float64, ok bool) {
	s := strings.TrimSpace(cell)
	if s == "" || s == "-" || s == "—" {
		return 0, true
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = currencyMarks.Replace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

func number(cell string) float64 {
	v, _ := ParseNumber(cell)
	return v
}
