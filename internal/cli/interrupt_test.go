package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptHandler(t *testing.T) {
	var out bytes.Buffer
	handler := NewInterruptHandler(&out)

	ctx := handler.HandleInterrupts(context.Background())
	assert.NoError(t, ctx.Err())
	assert.False(t, handler.WasInterrupted())

	handler.markInterrupted()
	handler.markInterrupted()
	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(out.String(), "Interrupted!"), "message is shown once")

	handler.Stop()
	assert.Error(t, ctx.Err(), "stop cancels the context")
	handler.Stop()
}

func TestNewInterruptHandlerDefaultsToStderr(t *testing.T) {
	handler := NewInterruptHandler(nil)
	assert.NotNil(t, handler.writer)
}
