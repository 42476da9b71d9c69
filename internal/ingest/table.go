package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerSearchRows bounds how far down a sheet the header row may sit.
const headerSearchRows = 10

// Grid is raw tabular data, one slice per row.
type Grid [][]string

// Table is a grid split into its header row and the data rows below it.
// Lines holds the 1-based source line of each entry in Rows.
type Table struct {
	Columns    ColumnMap
	Header     []string
	Rows       [][]string
	Lines      []int
	HeaderLine int
}

// ReadCSV reads delimited text. The delimiter is sniffed from the first
// non-empty line (tab, semicolon or comma).
func ReadCSV(r io.Reader) (Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited text: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	// Trimming would swallow empty tab-separated fields.
	reader.TrimLeadingSpace = reader.Comma != '\t'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited text: %w", err)
	}
	return Grid(records), nil
}

func sniffDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		best, bestCount := ',', strings.Count(line, ",")
		for _, d := range []rune{'\t', ';'} {
			if n := strings.Count(line, string(d)); n > bestCount {
				best, bestCount = d, n
			}
		}
		return best
	}
	return ','
}

// ReadXLSX reads the first worksheet of an XLSX workbook.
func ReadXLSX(r io.Reader) (Grid, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheetName, err)
	}
	return Grid(rows), nil
}

// GridFromValues converts a Sheets API value range into a grid.
func GridFromValues(values [][]any) Grid {
	grid := make(Grid, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		grid = append(grid, cells)
	}
	return grid
}

// Locate finds the header row among the first rows of the grid: the row
// whose cells match the most fields wins, the earliest row on ties. Rows
// after the header that are entirely blank are dropped.
func Locate(grid Grid, rules []Rule) (*Table, error) {
	bestRow, bestCols := -1, ColumnMap(nil)
	for i := 0; i < len(grid) && i < headerSearchRows; i++ {
		if isBlank(grid[i]) {
			continue
		}
		cols := MatchHeader(grid[i], rules)
		if len(cols) > len(bestCols) {
			bestRow, bestCols = i, cols
		}
	}
	if bestRow < 0 {
		return nil, ErrNoHeader
	}

	t := &Table{
		Header:     grid[bestRow],
		Columns:    bestCols,
		HeaderLine: bestRow + 1,
	}
	for j, row := range grid[bestRow+1:] {
		if !isBlank(row) {
			t.Rows = append(t.Rows, row)
			t.Lines = append(t.Lines, bestRow+j+2)
		}
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
