// Package ingest turns spreadsheet exports into leaders, agents and agency
// summaries. Columns are located by keyword rules rather than position.
package ingest

import (
	"sort"
	"strings"
	"unicode"
)

// Field is a logical column a rule can map a header cell to.
type Field string

// Rule maps header cells to a field. A header matches when it contains every
// keyword in All, at least one keyword in Any (when Any is set) and none of
// the keywords in None. Keywords of three characters or fewer only match
// whole words, so "UM" never matches inside "PREMIUM".
type Rule struct {
	Field  Field
	All    []string
	Any    []string
	None   []string
	Weight int
}

// Score rates how well header fits the rule, 0 meaning no match. Higher
// weights win first, then whole-word keyword hits over partial hits, then
// shorter headers over longer ones.
func (r Rule) Score(header string) int {
	h := normalizeHeader(header)
	if h == "" {
		return 0
	}
	for _, kw := range r.None {
		if hit(h, kw) != missed {
			return 0
		}
	}

	exact, partial := 0, 0
	covered := make(map[string]bool)
	count := func(kw string) bool {
		switch hit(h, kw) {
		case whole:
			exact++
		case inside:
			partial++
		default:
			return false
		}
		for _, tok := range strings.Fields(kw) {
			covered[tok] = true
		}
		return true
	}

	for _, kw := range r.All {
		if !count(kw) {
			return 0
		}
	}
	if len(r.Any) > 0 {
		matched := false
		for _, kw := range r.Any {
			if count(kw) {
				matched = true
			}
		}
		if !matched {
			return 0
		}
	}

	score := r.Weight*100 + exact*10 + partial*3
	for _, tok := range strings.Fields(h) {
		if !covered[tok] {
			score--
		}
	}
	return max(score, 1)
}

type hitKind int

const (
	missed hitKind = iota
	inside
	whole
)

func hit(header, keyword string) hitKind {
	kw := normalizeHeader(keyword)
	if kw == "" {
		return missed
	}
	if strings.Contains(" "+header+" ", " "+kw+" ") {
		return whole
	}
	if len(kw) > 3 && strings.Contains(header, kw) {
		return inside
	}
	return missed
}

// normalizeHeader upper-cases and turns punctuation into single spaces.
func normalizeHeader(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// ColumnMap records which column each field was found in.
type ColumnMap map[Field]int

// Has reports whether the field was matched.
func (m ColumnMap) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// Value returns the trimmed cell for field, or "" if the field or cell is missing.
func (m ColumnMap) Value(row []string, f Field) string {
	idx, ok := m[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

type candidate struct {
	field Field
	col   int
	score int
	order int
}

// MatchHeader assigns columns to fields. Every (field, column) pair is scored
// with the best applicable rule; pairs are then taken greedily by descending
// score, ties going to the leftmost column and then to the field whose first
// rule comes earlier. Each field and each column is used at most once.
func MatchHeader(header []string, rules []Rule) ColumnMap {
	firstRule := make(map[Field]int)
	for i, r := range rules {
		if _, ok := firstRule[r.Field]; !ok {
			firstRule[r.Field] = i
		}
	}

	best := make(map[Field]map[int]int)
	for _, r := range rules {
		for col, cell := range header {
			s := r.Score(cell)
			if s == 0 {
				continue
			}
			if best[r.Field] == nil {
				best[r.Field] = make(map[int]int)
			}
			if s > best[r.Field][col] {
				best[r.Field][col] = s
			}
		}
	}

	var cands []candidate
	for f, cols := range best {
		for col, s := range cols {
			cands = append(cands, candidate{field: f, col: col, score: s, order: firstRule[f]})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.col != b.col {
			return a.col < b.col
		}
		return a.order < b.order
	})

	out := make(ColumnMap)
	used := make(map[int]bool)
	for _, c := range cands {
		if out.Has(c.field) || used[c.col] {
			continue
		}
		out[c.field] = c.col
		used[c.col] = true
	}
	return out
}
