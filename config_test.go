package xlgrid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xlgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
max_columns: 100
max_rows: 500
default_width: 12
width_padding: 0
min_width: 2
max_width: 60
font:
  family: Arial
  size: 10
  bold: true
log_level: debug
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.MaxColumns)
	require.NotNil(t, cfg.WidthPadding)
	assert.Equal(t, 0.0, *cfg.WidthPadding)
	assert.Equal(t, logrus.DebugLevel, cfg.Level(logrus.InfoLevel))

	ws := NewWorksheet("Data", cfg.Options()...)
	assert.Equal(t, 100, ws.opts.maxColumns)
	assert.Equal(t, 500, ws.opts.maxRows)
	assert.Equal(t, 12.0, ws.opts.defaultWidth)
	assert.Equal(t, DefaultRowHeight, ws.opts.defaultHeight)
	assert.Equal(t, 0.0, ws.opts.widthPadding)
	assert.Equal(t, 2.0, ws.opts.minWidth)
	assert.Equal(t, 60.0, ws.opts.maxWidth)
	assert.Equal(t, Font{Family: "Arial", Size: 10, Bold: true}, ws.opts.defaultFont)

	_, err = ws.Column(101)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("font:\n  bold: true\n"))
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, cfg.Level(logrus.WarnLevel))

	ws := NewWorksheet("Sheet1", cfg.Options()...)
	assert.Equal(t, MaxColumns, ws.opts.maxColumns)
	assert.Equal(t, DefaultWidthPad, ws.opts.widthPadding)
	assert.Equal(t, Font{Family: "Calibri", Size: 11, Bold: true}, ws.opts.defaultFont)

	cfg, err = ParseConfig([]byte("min_width: 5\n"))
	require.NoError(t, err)
	ws = NewWorksheet("Sheet1", cfg.Options()...)
	assert.Equal(t, 5.0, ws.opts.minWidth)
	assert.Equal(t, DefaultMaxWidth, ws.opts.maxWidth)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad log level", "log_level: chatty\n"},
		{"bad yaml", "max_columns: [1, 2\n"},
		{"wrong type", "max_rows: many\n"},
		{"reversed bounds", "min_width: 40\nmax_width: 10\n"},
		{"negative floor", "min_width: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.body))
			assert.Error(t, err)
		})
	}

	_, err := ParseConfig([]byte("min_width: 40\nmax_width: 10\n"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
