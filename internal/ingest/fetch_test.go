package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/agency-pulse/internal/common"
	"github.com/Veraticus/agency-pulse/internal/service"
)

type fakeValues struct {
	err       error
	values    [][]any
	gotID     string
	gotRange  string
	callCount int
}

func (f *fakeValues) ReadValues(_ context.Context, spreadsheetID, readRange string) ([][]any, error) {
	f.callCount++
	f.gotID = spreadsheetID
	f.gotRange = readRange
	return f.values, f.err
}

func TestFetchCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("UM NAME,ANP\nUM_A,100\n"))
	}))
	defer server.Close()

	f := NewFetcher(time.Second, nil, service.RetryOptions{})
	grid, err := f.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, Grid{{"UM NAME", "ANP"}, {"UM_A", "100"}}, grid)
}

func TestFetchXLSX(t *testing.T) {
	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow(book.GetSheetName(0), "A1", &[]any{"UM NAME", "ANP"}))
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	f := NewFetcher(time.Second, nil, service.RetryOptions{})
	grid, err := f.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, Grid{{"UM NAME", "ANP"}}, grid)
}

func TestFetchRejectsHTML(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "html content type", contentType: "text/html; charset=utf-8", body: "sign in"},
		{name: "html body", contentType: "text/plain", body: "  <!DOCTYPE html><html></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				hits.Add(1)
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			f := NewFetcher(time.Second, nil, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})
			_, err := f.Fetch(context.Background(), server.URL)

			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrFetchFailed)
			assert.True(t, IsNotCSVExport(err))
			assert.Contains(t, common.HintFor(err), "Publish to web")
			assert.Equal(t, int32(1), hits.Load(), "not retried")
		})
	}
}

func TestFetchSingleAttemptByDefault(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(time.Second, nil, service.RetryOptions{})
	_, err := f.Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetchFailed)
	assert.NotEmpty(t, common.HintFor(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("UM NAME,ANP\nUM_A,100\n"))
	}))
	defer server.Close()

	f := NewFetcher(time.Second, nil, service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond})
	grid, err := f.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, grid, 2)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(time.Second, nil, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})
	_, err := f.Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchSheetsAPI(t *testing.T) {
	values := &fakeValues{values: [][]any{{"UM NAME", "ANP"}, {"UM_A", 100.0}}}
	f := NewFetcher(time.Second, values, service.RetryOptions{})

	grid, err := f.Fetch(context.Background(), "sheets://abc123/Leaders!A1:F")
	require.NoError(t, err)

	assert.Equal(t, "abc123", values.gotID)
	assert.Equal(t, "Leaders!A1:F", values.gotRange)
	assert.Equal(t, Grid{{"UM NAME", "ANP"}, {"UM_A", "100"}}, grid)

	_, err = f.Fetch(context.Background(), "sheets://abc123")
	require.NoError(t, err)
	assert.Equal(t, defaultSheetsRange, values.gotRange)
}

func TestFetchSheetsAPIErrors(t *testing.T) {
	f := NewFetcher(time.Second, nil, service.RetryOptions{})
	_, err := f.Fetch(context.Background(), "sheets://abc123/A:B")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
	assert.NotEmpty(t, common.HintFor(err))

	values := &fakeValues{err: errors.New("quota exceeded")}
	f = NewFetcher(time.Second, values, service.RetryOptions{})
	_, err = f.Fetch(context.Background(), "sheets://abc123/A:B")
	assert.ErrorIs(t, err, common.ErrFetchFailed)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaders.csv")
	require.NoError(t, os.WriteFile(path, []byte("UM NAME;ANP\nUM_A;100\n"), 0o600))

	f := NewFetcher(time.Second, nil, service.RetryOptions{})
	grid, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, Grid{{"UM NAME", "ANP"}, {"UM_A", "100"}}, grid)

	_, err = f.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, common.ErrFetchFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetchEmptySource(t *testing.T) {
	f := NewFetcher(time.Second, nil, service.RetryOptions{})
	_, err := f.Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, common.ErrNoSourceSetUp)
}
