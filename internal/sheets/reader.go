package sheets

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/agency-pulse/internal/common"
)

const hintShare = "Share the spreadsheet with the service account or the signed-in Google user."

// Reader reads cell ranges through the Sheets API.
type Reader struct {
	service *sheets.Service
}

// NewReader creates a reader on an API client.
func NewReader(service *sheets.Service) *Reader {
	return &Reader{service: service}
}

// ReadValues returns the formatted cell values of a range.
func (r *Reader) ReadValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := r.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}
	return resp.Values, nil
}

// classifyAPIError marks which API failures are worth retrying and attaches
// hints to the ones a user can fix.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusNotFound {
		return &common.RetryableError{
			Err:       common.NewUserErrorWithHint("spreadsheet not accessible", hintShare, err),
			Retryable: false,
		}
	}
	return common.ClassifyStatus(apiErr.Code, err)
}
