package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkforward-ensemble/internal/model"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrameCSV(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "returns.csv",
		"date,aaa,bbb\n2020-01-01,0.01,-0.02\n2020-01-02,0.03,0.04\n")

	f, err := LoadFrameCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa", "bbb"}, f.Columns)
	assert.Equal(t, 2, f.Rows())
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), f.Dates[0])
	assert.Equal(t, [][]float64{{0.01, -0.02}, {0.03, 0.04}}, f.Values)
}

func TestLoadFrameCSVErrors(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
	}{
		{"header only", "date,aaa\n"},
		{"no asset column", "date\n2020-01-01\n"},
		{"bad date", "date,aaa\n01/02/2020,0.01\n"},
		{"bad value", "date,aaa\n2020-01-01,oops\n"},
		{"unsorted dates", "date,aaa\n2020-01-02,0.01\n2020-01-01,0.02\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCSV(t, dir, "bad.csv", tc.content)
			_, err := LoadFrameCSV(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadFrameCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestWriteFrameCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	frame, err := model.NewFrame(
		[]time.Time{
			time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		[]string{"aaa", "bbb"},
		[][]float64{{0.015, -0.25}, {0, 1.5}},
	)
	require.NoError(t, err)

	path := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteFrameCSV(path, frame))

	loaded, err := LoadFrameCSV(path)
	require.NoError(t, err)
	assert.Equal(t, frame.Columns, loaded.Columns)
	assert.Equal(t, frame.Dates, loaded.Dates)
	assert.Equal(t, frame.Values, loaded.Values)
}

func TestLoadAligned(t *testing.T) {
	dir := t.TempDir()
	retPath := writeCSV(t, dir, "returns.csv",
		"date,aaa,bbb\n2020-01-01,0.01,-0.02\n2020-01-02,0.03,0.04\n")
	toPath := writeCSV(t, dir, "turnover.csv",
		"date,aaa,bbb\n2020-01-01,0.10,0.20\n2020-01-02,0.30,0.40\n")

	returns, turnover, err := LoadAligned(retPath, toPath)
	require.NoError(t, err)
	require.NotNil(t, turnover)
	assert.Equal(t, returns.Dates, turnover.Dates)

	returns, turnover, err = LoadAligned(retPath, "")
	require.NoError(t, err)
	assert.NotNil(t, returns)
	assert.Nil(t, turnover)

	shortPath := writeCSV(t, dir, "short.csv",
		"date,aaa,bbb\n2020-01-01,0.10,0.20\n")
	_, _, err = LoadAligned(retPath, shortPath)
	assert.Error(t, err, "misaligned turnover must be rejected")
}
