package collector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvFixture = `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-03,470.43,471.19,468.17,468.79,461.3,103585900
2024-01-02,472.16,473.67,470.49,472.65,465.1,123623700
2024-01-04,null,null,null,null,null,null
2023-12-29,476.49,477.03,473.30,475.31,468.0,122283100
2024-01-05,467.49,470.44,466.43,467.92,460.4,86118900
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spy.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVFetcher_FiltersAndSorts(t *testing.T) {
	f := NewCSVFetcher(writeCSV(t, csvFixture))

	bars, err := f.FetchDailyBars(context.Background(), "SPY", day("2024-01-01"), day("2024-01-05"))
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, day("2024-01-02"), bars[0].Time)
	assert.Equal(t, day("2024-01-03"), bars[1].Time)
	assert.Equal(t, 472.65, bars[0].Close)
	assert.Equal(t, 465.1, bars[0].AdjClose)
}

func TestCSVFetcher_MinimalColumns(t *testing.T) {
	f := NewCSVFetcher(writeCSV(t, "date,close\n2024-01-02,10\n2024-01-03,11\n"))

	bars, err := f.FetchDailyBars(context.Background(), "SPY", day("2024-01-01"), day("2024-02-01"))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 0.0, bars[0].AdjClose)
	assert.Equal(t, 11.0, bars[1].Close)
}

func TestCSVFetcher_NoRowsInRange(t *testing.T) {
	f := NewCSVFetcher(writeCSV(t, csvFixture))

	_, err := f.FetchDailyBars(context.Background(), "SPY", day("2010-01-01"), day("2011-01-01"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestCSVFetcher_Errors(t *testing.T) {
	_, err := NewCSVFetcher(filepath.Join(t.TempDir(), "missing.csv")).
		FetchDailyBars(context.Background(), "SPY", day("2024-01-01"), day("2024-02-01"))
	assert.Error(t, err)

	_, err = parseCSV(strings.NewReader("Day,Price\n2024-01-02,1\n"), day("2024-01-01"), day("2024-02-01"))
	assert.ErrorContains(t, err, "missing Date column")

	_, err = parseCSV(strings.NewReader("Date,Close\n01/02/2024,1\n"), day("2024-01-01"), day("2024-02-01"))
	assert.ErrorContains(t, err, "bad date")
}
