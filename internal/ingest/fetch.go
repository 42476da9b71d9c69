package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/service"
)

const (
	// SheetsScheme prefixes sources read through the Google Sheets API,
	// e.g. "sheets://<spreadsheet id>/<range>".
	SheetsScheme = "sheets://"

	defaultSheetsRange = "A:ZZ"
	maxPayloadBytes    = 10 << 20
)

// Hints shown when a source cannot be read.
const (
	hintPublishCSV = "In Google Sheets use File > Share > Publish to web, pick the sheet and " +
		"\"Comma-separated values (.csv)\", then paste the published link."
	hintReachable = "Check that the URL opens in a private browser window without signing in."
	hintSheetsAPI = "Run `pulse auth` or use a published CSV link instead of a sheets:// source."
)

// ValuesReader reads a cell range through the Google Sheets API.
type ValuesReader interface {
	ReadValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
}

// Fetcher downloads sheet sources and returns them as grids. A source is an
// http(s) URL to a CSV or XLSX export, a sheets:// reference, or a local path.
type Fetcher struct {
	client *http.Client
	values ValuesReader
	retry  service.RetryOptions
}

// NewFetcher creates a fetcher. values may be nil when no Sheets API access is
// configured. A zero retry.MaxAttempts means a single attempt.
func NewFetcher(timeout time.Duration, values ValuesReader, retry service.RetryOptions) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		values: values,
		retry:  retry,
	}
}

// Fetch reads a source. Every error wraps common.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, source string) (Grid, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrFetchFailed, common.ErrNoSourceSetUp)
	}

	var grid Grid
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		grid, fetchErr = f.fetchOnce(ctx, source)
		return fetchErr
	}, f.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrFetchFailed, source, err)
	}

	slog.Debug("Fetched sheet source", "source", source, "rows", len(grid))
	return grid, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, source string) (Grid, error) {
	switch {
	case strings.HasPrefix(source, SheetsScheme):
		return f.fetchValues(ctx, source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return f.fetchHTTP(ctx, source)
	default:
		return readFile(strings.TrimPrefix(source, "file://"))
	}
}

func (f *Fetcher) fetchValues(ctx context.Context, source string) (Grid, error) {
	if f.values == nil {
		return nil, permanent(common.NewUserErrorWithHint(
			"Google Sheets API access is not configured", hintSheetsAPI, common.ErrMissingConfig))
	}
	id, readRange, _ := strings.Cut(strings.TrimPrefix(source, SheetsScheme), "/")
	if id == "" {
		return nil, permanent(fmt.Errorf("%w: missing spreadsheet id in %q", common.ErrInvalidInput, source))
	}
	if readRange == "" {
		readRange = defaultSheetsRange
	}
	values, err := f.values.ReadValues(ctx, id, readRange)
	if err != nil {
		return nil, err
	}
	return GridFromValues(values), nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) (Grid, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanent(fmt.Errorf("invalid source URL: %w", err))
	}
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, common.NewUserErrorWithHint("sheet source unreachable", hintReachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		statusErr := common.NewUserErrorWithHint(
			fmt.Sprintf("sheet source returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			hintReachable, nil)
		return nil, common.ClassifyStatus(resp.StatusCode, statusErr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(contentType, "text/html") || looksLikeHTML(body):
		return nil, permanent(common.NewUserErrorWithHint(
			"the link returned a web page instead of a CSV export", hintPublishCSV, common.ErrNotCSVExport))
	case strings.Contains(contentType, "spreadsheetml") || isZip(body):
		grid, err := ReadXLSX(bytes.NewReader(body))
		return grid, permanentIf(err)
	default:
		grid, err := ReadCSV(bytes.NewReader(body))
		return grid, permanentIf(err)
	}
}

func readFile(path string) (Grid, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from admin configuration
	if err != nil {
		return nil, permanent(fmt.Errorf("failed to read %s: %w", path, err))
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") || isZip(data) {
		grid, err := ReadXLSX(bytes.NewReader(data))
		return grid, permanentIf(err)
	}
	grid, err := ReadCSV(bytes.NewReader(data))
	return grid, permanentIf(err)
}

func looksLikeHTML(body []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(body[:min(len(body), 512)]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func isZip(body []byte) bool {
	return bytes.HasPrefix(body, []byte("PK\x03\x04"))
}

// permanent marks an error that retrying cannot fix.
func permanent(err error) error {
	return &common.RetryableError{Err: err, Retryable: false}
}

func permanentIf(err error) error {
	if err == nil {
		return nil
	}
	return permanent(err)
}

// IsNotCSVExport reports whether err came from a source that served a web
// page instead of an export.
func IsNotCSVExport(err error) bool {
	return errors.Is(err, common.ErrNotCSVExport)
}
