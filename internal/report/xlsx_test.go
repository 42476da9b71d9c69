package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/agency-pulse/internal/model"
)

func TestWriteComparisonXLSX(t *testing.T) {
	adjusted := 80000.0
	comparisons := []model.ComparisonData{
		{
			Label:             "Alpha Unit",
			LeaderName:        "Mia Tan",
			AgentCount:        2,
			AgentsANPTotal:    45000,
			LeaderANPForecast: 50000,
			Variance:          -5000,
			Alignment:         90,
			Status:            model.StatusUnder,
			Adjusted:          &model.TargetPair{ANP: 48000, Recruits: 3},
		},
		{
			Label:      "Zed Cruz",
			LeaderName: "Zed Cruz",
			AgentCount: 1,
			Status:     model.StatusAligned,
		},
	}
	totals := model.AgencyTotals{
		AdjustedANPTarget: &adjusted,
		LeadersANPTarget:  100000,
		LeaderCount:       2,
		AgentCount:        3,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteComparisonXLSX(&buf, comparisons, totals))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{UnitsSheet, AgencySheet}, f.GetSheetList())

	rows, err := f.GetRows(UnitsSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Unit", rows[0][0])
	assert.Equal(t, "Alpha Unit", rows[1][0])
	assert.Equal(t, "-5000", rows[1][5])
	assert.Equal(t, "0.9", rows[1][6])
	assert.Equal(t, "under", rows[1][7])
	assert.Equal(t, "48000", rows[1][8])
	assert.Len(t, rows[2], 8, "no adjustment columns without an adjustment")

	target, err := f.GetCellValue(AgencySheet, "B4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "80000", target)
}

func TestWriteComparisonXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonXLSX(&buf, nil, model.AgencyTotals{}))
	assert.NotZero(t, buf.Len())
}
