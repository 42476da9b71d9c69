// Package report renders comparison reports for export.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/agency-pulse/internal/model"
)

// Sheet names of an exported workbook.
const (
	UnitsSheet  = "Units"
	AgencySheet = "Agency"
)

var unitColumns = []any{
	"Unit", "Leader", "Agents", "Agents ANP Target", "Leader ANP Forecast",
	"Variance", "Alignment %", "Status", "Adjusted ANP", "Adjusted Recruits",
}

// WriteComparisonXLSX writes the unit comparisons and agency totals as an
// XLSX workbook.
func WriteComparisonXLSX(w io.Writer, comparisons []model.ComparisonData, totals model.AgencyTotals) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", UnitsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(AgencySheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeUnits(f, comparisons, bold, money, percent); err != nil {
		return err
	}
	if err := writeAgency(f, totals, bold, money); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeUnits(f *excelize.File, comparisons []model.ComparisonData, bold, money, percent int) error {
	if err := f.SetSheetRow(UnitsSheet, "A1", &unitColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, c := range comparisons {
		row := []any{
			c.Label, c.LeaderName, c.AgentCount, c.AgentsANPTotal, c.LeaderANPForecast,
			c.Variance, c.Alignment / 100, string(c.Status),
		}
		if c.Adjusted != nil {
			row = append(row, c.Adjusted.ANP, c.Adjusted.Recruits)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(UnitsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write unit %s: %w", c.Label, err)
		}
	}

	last := len(comparisons) + 1
	styles := []struct {
		from, to string
		style    int
	}{
		{"A1", "J1", bold},
		{"D2", fmt.Sprintf("F%d", last), money},
		{"G2", fmt.Sprintf("G%d", last), percent},
		{"I2", fmt.Sprintf("I%d", last), money},
	}
	for _, s := range styles {
		if len(comparisons) == 0 && s.style != bold {
			continue
		}
		if err := f.SetCellStyle(UnitsSheet, s.from, s.to, s.style); err != nil {
			return fmt.Errorf("failed to style %s:%s: %w", s.from, s.to, err)
		}
	}
	if err := f.SetColWidth(UnitsSheet, "A", "B", 24); err != nil {
		return err
	}
	return f.SetPanes(UnitsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeAgency(f *excelize.File, totals model.AgencyTotals, bold, money int) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Leaders", totals.LeaderCount},
		{"Agents", totals.AgentCount},
		{"ANP Target", totals.EffectiveANPTarget()},
		{"Recruits Target", totals.EffectiveRecruitsTarget()},
		{"Leaders ANP Target", totals.LeadersANPTarget},
		{"Leaders ANP Forecast", totals.LeadersANPForecast},
		{"Leaders Recruits Forecast", totals.LeadersRecruitsFcst},
		{"Agents ANP Target", totals.AgentsANPTarget},
		{"Agents Commission Target", totals.AgentsCommissionTarget},
		{"Agents Recruits Target", totals.AgentsRecruitsTarget},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(AgencySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("failed to write agency row: %w", err)
		}
	}
	if err := f.SetCellStyle(AgencySheet, "A1", "B1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(AgencySheet, "B4", "B4", money); err != nil {
		return err
	}
	if err := f.SetCellStyle(AgencySheet, "B6", fmt.Sprintf("B%d", len(rows)-1), money); err != nil {
		return err
	}
	return f.SetColWidth(AgencySheet, "A", "A", 28)
}
