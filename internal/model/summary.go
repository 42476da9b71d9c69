package model

import (
	"fmt"
	"sort"
	"time"
)

// SummaryField identifies a single figure in the agency summary, e.g. "mtd.anp".
type SummaryField string

// Summary metric names. A SummaryField is a period prefix joined with one of these.
const (
	MetricANP               = "anp"
	MetricPremium           = "premium"
	MetricCommission        = "commission"
	MetricCases             = "cases"
	MetricProducingAdvisors = "producing_advisors"
	MetricManpower          = "manpower"
	MetricPersistency       = "persistency"
)

var summaryMetrics = []string{
	MetricANP,
	MetricPremium,
	MetricCommission,
	MetricCases,
	MetricProducingAdvisors,
	MetricManpower,
	MetricPersistency,
}

// SummaryFields lists every field of the agency summary in display order.
func SummaryFields() []SummaryField {
	fields := make([]SummaryField, 0, 2*len(summaryMetrics))
	for _, period := range []string{"mtd", "ytd"} {
		for _, metric := range summaryMetrics {
			fields = append(fields, SummaryField(period+"."+metric))
		}
	}
	return fields
}

// ParseSummaryField validates a field name.
func ParseSummaryField(s string) (SummaryField, error) {
	for _, f := range SummaryFields() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown summary field %q", s)
}

// MetricSet is one period's worth of agency figures.
type MetricSet struct {
	ANP               float64 `json:"anp"`
	Premium           float64 `json:"premium"`
	Commission        float64 `json:"commission"`
	Cases             float64 `json:"cases"`
	ProducingAdvisors float64 `json:"producingAdvisors"`
	Manpower          float64 `json:"manpower"`
	Persistency       float64 `json:"persistency"`
}

func (m *MetricSet) ref(metric string) *float64 {
	switch metric {
	case MetricANP:
		return &m.ANP
	case MetricPremium:
		return &m.Premium
	case MetricCommission:
		return &m.Commission
	case MetricCases:
		return &m.Cases
	case MetricProducingAdvisors:
		return &m.ProducingAdvisors
	case MetricManpower:
		return &m.Manpower
	case MetricPersistency:
		return &m.Persistency
	}
	return nil
}

// OverrideState tracks who owns the value of a summary field.
type OverrideState string

// Override states. A stale field is still overridden, but a later sync
// computed a value different from the override.
const (
	StateComputed   OverrideState = "computed"
	StateOverridden OverrideState = "overridden"
	StateStale      OverrideState = "stale"
)

// AgencySummary holds agency-wide month-to-date and year-to-date totals.
type AgencySummary struct {
	UpdatedAt    time.Time                      `json:"updatedAt"`
	States       map[SummaryField]OverrideState `json:"states,omitempty"`
	LastComputed map[SummaryField]float64       `json:"lastComputed,omitempty"`
	MTD          MetricSet                      `json:"mtd"`
	YTD          MetricSet                      `json:"ytd"`
}

func (s *AgencySummary) ref(field SummaryField) *float64 {
	f := string(field)
	if len(f) < 5 {
		return nil
	}
	switch f[:4] {
	case "mtd.":
		return s.MTD.ref(f[4:])
	case "ytd.":
		return s.YTD.ref(f[4:])
	}
	return nil
}

// Get returns the current value of a field.
func (s *AgencySummary) Get(field SummaryField) float64 {
	if p := s.ref(field); p != nil {
		return *p
	}
	return 0
}

func (s *AgencySummary) set(field SummaryField, v float64) {
	if p := s.ref(field); p != nil {
		*p = v
	}
}

// SetComputed stores a computed value unless the field is overridden.
func (s *AgencySummary) SetComputed(field SummaryField, v float64) {
	if s.IsOverridden(field) {
		return
	}
	s.set(field, v)
}

// State returns the override state of a field.
func (s *AgencySummary) State(field SummaryField) OverrideState {
	if st, ok := s.States[field]; ok {
		return st
	}
	return StateComputed
}

// IsOverridden reports whether an admin has pinned the field.
func (s *AgencySummary) IsOverridden(field SummaryField) bool {
	return s.State(field) != StateComputed
}

// Override sets a field by hand. The field stays overridden across syncs.
func (s *AgencySummary) Override(field SummaryField, v float64) error {
	if s.ref(field) == nil {
		return fmt.Errorf("unknown summary field %q", field)
	}
	if s.States == nil {
		s.States = make(map[SummaryField]OverrideState)
	}
	s.set(field, v)
	s.States[field] = StateOverridden
	return nil
}

// MergeComputed folds freshly computed figures into the summary. Computed
// fields take the new value; overridden fields keep theirs and become stale
// when the new value differs. Fields the incoming summary itself overrides
// are explicit edits and always win.
func (s *AgencySummary) MergeComputed(fresh *AgencySummary) {
	for _, field := range SummaryFields() {
		v := fresh.Get(field)
		if fresh.IsOverridden(field) {
			if s.States == nil {
				s.States = make(map[SummaryField]OverrideState)
			}
			s.set(field, v)
			s.States[field] = fresh.State(field)
			continue
		}
		if !s.IsOverridden(field) {
			s.set(field, v)
			continue
		}
		if s.LastComputed == nil {
			s.LastComputed = make(map[SummaryField]float64)
		}
		s.LastComputed[field] = v
		if v != s.Get(field) {
			s.States[field] = StateStale
		} else {
			s.States[field] = StateOverridden
		}
	}
	s.UpdatedAt = fresh.UpdatedAt
}

// OverriddenFields returns the pinned fields in sorted order.
func (s *AgencySummary) OverriddenFields() []SummaryField {
	var out []SummaryField
	for f, st := range s.States {
		if st != StateComputed {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
