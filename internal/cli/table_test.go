package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/agency-pulse/internal/model"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Unit", "Status"}, [][]string{
		{"Alpha Unit", "under"},
		{"Zed Cruz", "aligned"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "Unit")
	assert.Contains(t, out, "Alpha Unit")
	assert.Contains(t, out, "Zed Cruz")
}

func TestRenderKeyValues(t *testing.T) {
	out := RenderKeyValues([][2]string{{"Leaders", "2"}, {"ANP Target", "90,000"}})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "90,000")
}

func TestFormatStatus(t *testing.T) {
	for _, status := range []model.AlignmentStatus{model.StatusUnder, model.StatusAligned, model.StatusOver} {
		assert.Contains(t, FormatStatus(status), string(status))
	}
}

func TestProgress(t *testing.T) {
	var out strings.Builder
	p := NewProgress(&out, 3, "Syncing")
	p.Step("agency")
	p.Step("leaders")
	p.Step("agents")
	p.Done()
	assert.NotEmpty(t, out.String())
}
