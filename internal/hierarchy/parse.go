package hierarchy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/agency-pulse/internal/ingest"
	"github.com/Veraticus/agency-pulse/internal/names"
)

// ErrNoAgentColumn means the pasted header has no recognizable agent column.
var ErrNoAgentColumn = errors.New("no agent column in header")

const (
	fieldLeader     ingest.Field = "leader"
	fieldSupervisor ingest.Field = "supervisor"
	fieldAgent      ingest.Field = "agent"
	fieldCode       ingest.Field = "code"
)

var supervisorWords = []string{"SUPERVISOR", "DIRECT", "REPORT", "REPORTS", "IMMEDIATE"}

// importRules locate the three name columns of a pasted hierarchy.
var importRules = []ingest.Rule{
	{Field: fieldAgent, Any: []string{"AGENT NAME", "ADVISOR NAME", "ADVISER NAME"}, Weight: 3},
	{Field: fieldAgent, Any: []string{"AGENT", "ADVISOR", "ADVISER"}, None: append([]string{"CODE", "UM", "LEADER", "MANAGER"}, supervisorWords...), Weight: 2},
	{Field: fieldAgent, All: []string{"NAME"}, None: append([]string{"UM", "LEADER", "MANAGER", "UNIT"}, supervisorWords...), Weight: 1},
	{Field: fieldLeader, Any: []string{"UM NAME", "UNIT MANAGER", "LEADER"}, None: supervisorWords, Weight: 3},
	{Field: fieldLeader, Any: []string{"UM", "UNIT"}, None: supervisorWords, Weight: 2},
	{Field: fieldSupervisor, Any: []string{"SUPERVISOR", "DIRECT REPORT", "REPORTS TO", "REPORT TO", "IMMEDIATE"}, Weight: 3},
	{Field: fieldCode, Any: []string{"CODE"}, None: []string{"UM", "LEADER", "MANAGER", "SUPERVISOR"}, Weight: 2},
}

// RowError reports a pasted row that could not be used.
type RowError struct {
	Reason string
	Line   int
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseImport reads pasted delimited text (tab, comma or semicolon) into
// resolver rows. Bad rows are reported and skipped; only an unusable header
// fails the whole import.
func ParseImport(text string) ([]Row, []RowError, error) {
	grid, err := ingest.ReadCSV(strings.NewReader(text))
	if err != nil {
		return nil, nil, err
	}
	table, err := ingest.Locate(grid, importRules)
	if err != nil {
		return nil, nil, err
	}
	if !table.Columns.Has(fieldAgent) {
		return nil, nil, ErrNoAgentColumn
	}

	var rows []Row
	var rowErrs []RowError
	for i, cells := range table.Rows {
		line := table.Lines[i]
		row := Row{Line: line, AgentCode: table.Columns.Value(cells, fieldCode)}

		var reason string
		row.Agent, reason = displayCell(table.Columns.Value(cells, fieldAgent))
		if reason == "" {
			row.Leader, reason = displayCell(table.Columns.Value(cells, fieldLeader))
		}
		if reason == "" {
			row.Supervisor, reason = displayCell(table.Columns.Value(cells, fieldSupervisor))
		}
		if reason == "" && row.Agent == "" {
			reason = "missing agent name"
		}
		if reason != "" {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: reason})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

// displayCell converts a worksheet-encoded name. A cell that looks encoded
// but does not convert is malformed.
func displayCell(cell string) (string, string) {
	if cell == "" {
		return "", ""
	}
	display := names.ToDisplay(cell)
	if strings.HasPrefix(cell, "I/") && display == cell {
		return "", fmt.Sprintf("malformed worksheet name %q", cell)
	}
	return strings.Join(strings.Fields(display), " "), ""
}
