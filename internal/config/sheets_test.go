package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadSheetsConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-client")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")

	viper.Set("sheets.token_file", "~/.config/pulse/token.json")
	viper.Set("sheets.spreadsheet_id", "viper-sheet")
	viper.Set("sheets.formatting", false)

	config := LoadSheetsConfig()

	assert.Equal(t, filepath.Join(home, ".config/pulse/token.json"), config.TokenFile)
	assert.Equal(t, "viper-sheet", config.SpreadsheetID, "viper wins over env")
	assert.Equal(t, "env-client", config.ClientID, "env fills gaps")
	assert.Equal(t, "Agency Pulse", config.SpreadsheetName)
	assert.False(t, config.EnableFormatting)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PULSE_DATA", "/srv/pulse")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/pulse.db", filepath.Join(home, "pulse.db")},
		{"$PULSE_DATA/pulse.db", "/srv/pulse/pulse.db"},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.in), tt.in)
	}
}
