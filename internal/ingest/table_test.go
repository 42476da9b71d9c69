package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSVDelimiters(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "comma", input: "Name,ANP\nAna,100\n"},
		{name: "semicolon", input: "Name;ANP\nAna;100\n"},
		{name: "tab", input: "Name\tANP\nAna\t100\n"},
		{name: "byte order mark", input: "\xef\xbb\xbfName,ANP\nAna,100\n"},
		{name: "leading blank line", input: "\nName,ANP\nAna,100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := ReadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, Grid{{"Name", "ANP"}, {"Ana", "100"}}, grid)
		})
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	grid, err := ReadCSV(strings.NewReader("Name,ANP,Cases\nAna,100\nBen,200,3,extra\n"))
	require.NoError(t, err)

	require.Len(t, grid, 3)
	assert.Len(t, grid[1], 2)
	assert.Len(t, grid[2], 4)
}

func TestReadCSVQuotedThousands(t *testing.T) {
	grid, err := ReadCSV(strings.NewReader("Name,ANP\n\"Cruz, Ana\",\"1,250,000\"\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Cruz, Ana", "1,250,000"}, grid[1])
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"UM NAME", "ANP"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"I/GONZALES/ANALYN/D@", 150000}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	grid, err := ReadXLSX(buf)
	require.NoError(t, err)

	assert.Equal(t, Grid{{"UM NAME", "ANP"}, {"I/GONZALES/ANALYN/D@", "150000"}}, grid)
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}

func TestGridFromValues(t *testing.T) {
	grid := GridFromValues([][]any{
		{"UM NAME", "ANP"},
		{"Ana", 150000.0, nil},
	})

	assert.Equal(t, Grid{{"UM NAME", "ANP"}, {"Ana", "150000", ""}}, grid)
}

func TestLocate(t *testing.T) {
	grid := Grid{
		{"October leaders report"},
		{"UM NAME", "ANP"},
		{"Ana", "1"},
		{"", " "},
		{"Ben", "2"},
	}

	table, err := Locate(grid, LeaderRules)
	require.NoError(t, err)

	assert.Equal(t, 2, table.HeaderLine)
	assert.Equal(t, []string{"UM NAME", "ANP"}, table.Header)
	assert.Equal(t, [][]string{{"Ana", "1"}, {"Ben", "2"}}, table.Rows)
	assert.Equal(t, []int{3, 5}, table.Lines)
	assert.Equal(t, 0, table.Columns[FieldName])
	assert.Equal(t, 1, table.Columns[FieldANP])
}

func TestLocateNoHeader(t *testing.T) {
	_, err := Locate(Grid{{"foo", "bar"}, {"1", "2"}}, LeaderRules)
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Locate(nil, LeaderRules)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{input: "1,234.50", want: 1234.5, ok: true},
		{input: "₱1,000", want: 1000, ok: true},
		{input: "$ 250", want: 250, ok: true},
		{input: "(500)", want: -500, ok: true},
		{input: "85%", want: 85, ok: true},
		{input: "", want: 0, ok: true},
		{input: " - ", want: 0, ok: true},
		{input: "n/a", want: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
