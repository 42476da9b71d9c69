package model

import (
	"fmt"
	"time"
)

// SheetKind names one of the three configurable spreadsheet sources.
type SheetKind string

// Sheet kinds.
const (
	SheetAgency  SheetKind = "agency"
	SheetLeaders SheetKind = "leaders"
	SheetAgents  SheetKind = "agents"
)

// SheetKinds lists the kinds in sync order.
func SheetKinds() []SheetKind {
	return []SheetKind{SheetAgency, SheetLeaders, SheetAgents}
}

// ParseSheetKind validates a sheet kind.
func ParseSheetKind(s string) (SheetKind, error) {
	for _, k := range SheetKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sheet kind %q (want agency, leaders or agents)", s)
}

// SheetSource is a published spreadsheet export.
type SheetSource struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Active      bool      `json:"active"`
}

// SheetsConfig holds at most one source per kind.
type SheetsConfig struct {
	Sources map[SheetKind]SheetSource `json:"sources"`
}

// Source returns the source configured for kind.
func (c *SheetsConfig) Source(kind SheetKind) (SheetSource, bool) {
	src, ok := c.Sources[kind]
	return src, ok
}

// SetSource stores the source for kind.
func (c *SheetsConfig) SetSource(kind SheetKind, src SheetSource) {
	if c.Sources == nil {
		c.Sources = make(map[SheetKind]SheetSource)
	}
	c.Sources[kind] = src
}
