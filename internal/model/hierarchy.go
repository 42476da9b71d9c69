package model

import (
	"fmt"
	"strings"
)

// Rank is a position on the agency's five-level ladder.
type Rank string

// Ranks from individual producer up to the top of the agency.
const (
	RankADV Rank = "ADV"
	RankAUM Rank = "AUM"
	RankUM  Rank = "UM"
	RankSUM Rank = "SUM"
	RankADD Rank = "ADD"
)

// Ranks lists every rank from lowest to highest.
func Ranks() []Rank {
	return []Rank{RankADV, RankAUM, RankUM, RankSUM, RankADD}
}

// ParseRank parses a rank name in any case.
func ParseRank(s string) (Rank, error) {
	r := Rank(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Ranks() {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown rank %q", s)
}

// Level returns the rank's position, 0 for ADV.
func (r Rank) Level() int {
	for i, known := range Ranks() {
		if r == known {
			return i
		}
	}
	return -1
}

// IsLeader reports whether the rank manages a unit.
func (r Rank) IsLeader() bool {
	return r.Level() >= RankUM.Level()
}

// HierarchyEntry places one person in the agency's organization.
// ManagerName refers to another entry by display name.
type HierarchyEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rank        Rank   `json:"rank"`
	ManagerName string `json:"managerName,omitempty"`
	Agency      string `json:"agency"`
	Code        string `json:"code,omitempty"`
}
