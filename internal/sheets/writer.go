package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/service"
)

const comparisonTab = "Comparison"

// comparisonColumns is the unit table header; the first data row follows
// the agency block.
var comparisonColumns = []any{
	"Unit", "Leader", "Agents", "Agents ANP Target", "Leader ANP Forecast",
	"Variance", "Alignment %", "Status", "Adjusted ANP", "Adjusted Recruits",
}

// ComparisonWriter pushes a comparison report somewhere.
type ComparisonWriter interface {
	WriteComparison(ctx context.Context, comparisons []model.ComparisonData, totals model.AgencyTotals) (string, error)
}

// Writer pushes comparison reports to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	now     func() time.Time
	config  Config
}

var _ ComparisonWriter = (*Writer)(nil)

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	srv, err := NewService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// WriteComparison replaces the report tab with the unit comparisons and
// agency totals. It returns the spreadsheet id.
func (w *Writer) WriteComparison(ctx context.Context, comparisons []model.ComparisonData, totals model.AgencyTotals) (string, error) {
	w.logger.Info("Starting comparison push", "units", len(comparisons))

	spreadsheetID, sheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  max(w.config.RetryAttempts, 1),
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if err := common.WithRetry(ctx, func() error {
		return w.clearSheet(ctx, spreadsheetID)
	}, retryOpts); err != nil {
		return "", fmt.Errorf("failed to clear sheet: %w", err)
	}

	values, headerRow := prepareComparisonData(comparisons, totals, w.now())
	if err := common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts); err != nil {
		return "", fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err := common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, sheetID, headerRow, len(values))
		}, retryOpts)
		if err != nil {
			// The data is already written.
			w.logger.Warn("Failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("Comparison push completed", "spreadsheet_id", spreadsheetID, "rows_written", len(values))
	return spreadsheetID, nil
}

// getOrCreateSpreadsheet returns the configured spreadsheet, adding the
// report tab when missing, or creates a new spreadsheet.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, int64, error) {
	if w.config.SpreadsheetID != "" {
		ss, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", 0, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, classifyAPIError(err))
		}
		for _, sh := range ss.Sheets {
			if sh.Properties != nil && sh.Properties.Title == comparisonTab {
				return ss.SpreadsheetId, sh.Properties.SheetId, nil
			}
		}
		resp, err := w.service.Spreadsheets.BatchUpdate(ss.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: comparisonTab},
			}}},
		}).Context(ctx).Do()
		if err != nil {
			return "", 0, fmt.Errorf("unable to add %s tab: %w", comparisonTab, err)
		}
		return ss.SpreadsheetId, resp.Replies[0].AddSheet.Properties.SheetId, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: comparisonTab}},
		},
	}
	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("Created new spreadsheet", "id", created.SpreadsheetId, "url", created.SpreadsheetUrl)
	var sheetID int64
	if len(created.Sheets) > 0 && created.Sheets[0].Properties != nil {
		sheetID = created.Sheets[0].Properties.SheetId
	}
	return created.SpreadsheetId, sheetID, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, comparisonTab+"!A:Z", &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return classifyAPIError(err)
}

// prepareComparisonData lays out the report: a title, the agency block and
// the unit table. It also returns the index of the unit table header row.
func prepareComparisonData(comparisons []model.ComparisonData, totals model.AgencyTotals, generated time.Time) ([][]any, int) {
	values := make([][]any, 0, 12+len(comparisons))
	values = append(values,
		[]any{"Agency Comparison", generated.Format("Jan 2, 2006 15:04")},
		[]any{},
		[]any{"Agency"},
		[]any{"Leaders", totals.LeaderCount},
		[]any{"Agents", totals.AgentCount},
		[]any{"ANP Target", totals.EffectiveANPTarget()},
		[]any{"Recruits Target", totals.EffectiveRecruitsTarget()},
		[]any{"Leaders ANP Forecast", totals.LeadersANPForecast},
		[]any{"Agents ANP Target", totals.AgentsANPTarget},
		[]any{},
	)

	headerRow := len(values)
	values = append(values, comparisonColumns)
	for _, c := range comparisons {
		row := []any{
			c.Label,
			c.LeaderName,
			c.AgentCount,
			c.AgentsANPTotal,
			c.LeaderANPForecast,
			c.Variance,
			c.Alignment / 100,
			string(c.Status),
		}
		if c.Adjusted != nil {
			row = append(row, c.Adjusted.ANP, c.Adjusted.Recruits)
		} else {
			row = append(row, "", "")
		}
		values = append(values, row)
	}
	return values, headerRow
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		rangeStr := fmt.Sprintf("%s!A%d", comparisonTab, i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, classifyAPIError(err))
		}

		w.logger.Debug("Wrote batch", "start_row", i+1, "rows", len(batch))
	}
	return nil
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, headerRow, totalRows int) error {
	bold := func(startRow, endRow, endCol int) *sheets.Request {
		return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    int64(startRow),
				EndRowIndex:      int64(endRow),
				StartColumnIndex: 0,
				EndColumnIndex:   int64(endCol),
			},
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				TextFormat: &sheets.TextFormat{Bold: true},
			}},
			Fields: "userEnteredFormat.textFormat",
		}}
	}
	numberFormat := func(startCol, endCol int, kind, pattern string) *sheets.Request {
		return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    int64(headerRow + 1),
				EndRowIndex:      int64(totalRows),
				StartColumnIndex: int64(startCol),
				EndColumnIndex:   int64(endCol),
			},
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				NumberFormat: &sheets.NumberFormat{Type: kind, Pattern: pattern},
			}},
			Fields: "userEnteredFormat.numberFormat",
		}}
	}

	requests := []*sheets.Request{
		bold(0, 1, 2),
		bold(2, 3, 1),
		bold(headerRow, headerRow+1, len(comparisonColumns)),
		numberFormat(3, 6, "NUMBER", "#,##0"),
		numberFormat(6, 7, "PERCENT", "0.0%"),
		numberFormat(8, 9, "NUMBER", "#,##0"),
		{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   int64(len(comparisonColumns)),
			},
		}},
		{UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:        sheetID,
				GridProperties: &sheets.GridProperties{FrozenRowCount: int64(headerRow + 1)},
			},
			Fields: "gridProperties.frozenRowCount",
		}},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return classifyAPIError(err)
}
