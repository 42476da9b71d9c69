package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/names"
)

// isTotalRow reports whether a row label marks a sheet total rather than a person.
func isTotalRow(label string) bool {
	n := names.Normalize(label)
	return strings.HasPrefix(n, "TOTAL") || strings.HasPrefix(n, "GRAND TOTAL")
}

// ParseLeaders builds leader records from a leaders sheet. Without a name
// column no rows are accepted.
func ParseLeaders(grid Grid) ([]model.Leader, error) {
	t, err := Locate(grid, LeaderRules)
	if err != nil {
		return nil, err
	}
	if !t.Columns.Has(FieldName) {
		return nil, ErrMissingIdentityColumn
	}

	seen := make(map[string]int)
	var leaders []model.Leader
	for _, row := range t.Rows {
		raw := t.Columns.Value(row, FieldName)
		if raw == "" || isTotalRow(raw) {
			continue
		}
		name := names.ToDisplay(raw)
		c := t.Columns
		l := model.Leader{
			ID:             model.StableID("leader", names.Normalize(name)),
			Name:           name,
			Unit:           c.Value(row, FieldUnit),
			ANP:            number(c.Value(row, FieldANP)),
			Recruits:       number(c.Value(row, FieldRecruits)),
			Cases:          number(c.Value(row, FieldCases)),
			FYP:            number(c.Value(row, FieldFYP)),
			FYC:            number(c.Value(row, FieldFYC)),
			YTDANP:         number(c.Value(row, FieldYTDANP)),
			YTDFYP:         number(c.Value(row, FieldYTDFYP)),
			YTDFYC:         number(c.Value(row, FieldYTDFYC)),
			YTDCases:       number(c.Value(row, FieldYTDCases)),
			ANPTarget:      number(c.Value(row, FieldANPTarget)),
			RecruitsTarget: number(c.Value(row, FieldRecruitsTarget)),
		}
		// A leader listed twice keeps the later row.
		if i, dup := seen[l.ID]; dup {
			leaders[i] = l
			continue
		}
		seen[l.ID] = len(leaders)
		leaders = append(leaders, l)
	}
	return leaders, nil
}

// ParseAgents builds agent records from an agents sheet. Leader names are
// converted to display form so they line up with leader records.
func ParseAgents(grid Grid) ([]model.Agent, error) {
	t, err := Locate(grid, AgentRules)
	if err != nil {
		return nil, err
	}
	if !t.Columns.Has(FieldName) {
		return nil, ErrMissingIdentityColumn
	}

	seen := make(map[string]int)
	var agents []model.Agent
	for _, row := range t.Rows {
		raw := t.Columns.Value(row, FieldName)
		if raw == "" || isTotalRow(raw) {
			continue
		}
		name := names.ToDisplay(raw)
		leader := names.ToDisplay(t.Columns.Value(row, FieldLeader))
		a := model.Agent{
			ID:             model.StableID("agent", names.Normalize(name), names.Normalize(leader)),
			Name:           name,
			LeaderName:     leader,
			ANP:            number(t.Columns.Value(row, FieldANP)),
			FYP:            number(t.Columns.Value(row, FieldFYP)),
			Cases:          number(t.Columns.Value(row, FieldCases)),
			RecruitsTarget: number(t.Columns.Value(row, FieldRecruitsTarget)),
		}
		a.SetCommissionTarget(number(t.Columns.Value(row, FieldCommissionTarget)))
		if i, dup := seen[a.ID]; dup {
			agents[i] = a
			continue
		}
		seen[a.ID] = len(agents)
		agents = append(agents, a)
	}
	return agents, nil
}

// ParseAgencySummary computes the agency summary from the agency sheet. A
// row labelled TOTAL is taken as authoritative; otherwise rows are summed,
// except persistency which is averaged over rows that report it.
func ParseAgencySummary(grid Grid, now time.Time) (*model.AgencySummary, error) {
	t, err := Locate(grid, AgencyRules)
	if err != nil {
		return nil, err
	}

	var metrics []model.SummaryField
	for _, f := range model.SummaryFields() {
		if t.Columns.Has(Field(f)) {
			metrics = append(metrics, f)
		}
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: no agency metric columns matched", ErrMissingIdentityColumn)
	}

	rows := t.Rows
	for _, row := range t.Rows {
		if isTotalRow(t.Columns.Value(row, FieldLabel)) {
			rows = [][]string{row}
			break
		}
	}

	sums := make(map[model.SummaryField]float64)
	counts := make(map[model.SummaryField]int)
	for _, row := range rows {
		for _, f := range metrics {
			v := number(t.Columns.Value(row, Field(f)))
			if v == 0 {
				continue
			}
			sums[f] += v
			counts[f]++
		}
	}

	computed := &model.AgencySummary{UpdatedAt: now}
	for _, f := range metrics {
		v := sums[f]
		if strings.HasSuffix(string(f), "."+model.MetricPersistency) && counts[f] > 0 {
			v /= float64(counts[f])
		}
		computed.SetComputed(f, v)
	}
	return computed, nil
}
