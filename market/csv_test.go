package market

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSVWithHeader(t *testing.T) {
	path := writeFixture(t, `time,open,high,low,close,volume
2024-01-01,100,110,95,105,1234
2024-01-02,105,112,101,108,2345
`)

	candles, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.True(t, candles[0].Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100.0, candles[0].Open)
	assert.Equal(t, 105.0, candles[0].Close)
	assert.Equal(t, 1234.0, candles[0].Volume)
}

func TestLoadCSVWithoutHeader(t *testing.T) {
	path := writeFixture(t, "2024-01-01,100,110,95,105,1234\n")

	candles, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, candles, 1)
}

func TestLoadCSVTimeFormats(t *testing.T) {
	path := writeFixture(t, `time,open,high,low,close,volume
2024-01-01T09:00:00Z,100,110,95,105,1
1704153600,105,112,101,108,1
`)

	candles, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, 9, candles[0].Time.Hour())
	assert.True(t, candles[1].Time.Equal(time.Unix(1704153600, 0)))
}

func TestLoadCSVMissingVolume(t *testing.T) {
	path := writeFixture(t, "2024-01-01,100,110,95,105\n")

	candles, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Zero(t, candles[0].Volume)
}

func TestLoadCSVRejections(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"header only", "time,open,high,low,close,volume\n"},
		{"too few columns", "2024-01-01,100,110\n"},
		{"bad time", "someday,100,110,95,105,1\n"},
		{"bad number", "2024-01-01,100,hi,95,105,1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCSV(writeFixture(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
