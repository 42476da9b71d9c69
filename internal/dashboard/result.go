package dashboard

import (
	"errors"

	"github.com/Veraticus/agency-pulse/internal/common"
)

// Result is the outcome of an operation. On failure Error holds a message
// fit to show a user and Hint, when set, says how to fix it.
type Result[T any] struct {
	Data     T        `json:"data"`
	Error    string   `json:"error,omitempty"`
	Hint     string   `json:"hint,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Success  bool     `json:"success"`
}

// Err turns a failed result back into an error.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return errors.New(r.Error)
}

func ok[T any](data T, warnings ...string) Result[T] {
	return Result[T]{Success: true, Data: data, Warnings: warnings}
}

// fail converts err into a failed result. Data is kept so callers can still
// report what did succeed.
func fail[T any](op string, data T, err error) Result[T] {
	common.LogError(err, "Operation failed", common.Fields{"op": op})
	return Result[T]{
		Data:  data,
		Error: message(err),
		Hint:  common.HintFor(err),
	}
}

func message(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) && userErr.UserMessage != "" {
		return userErr.UserMessage
	}
	return err.Error()
}
