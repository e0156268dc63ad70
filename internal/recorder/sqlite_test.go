package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CalendarEffects/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTestDB(t)
	bars := []model.OHLCV{
		{Time: day("2024-01-02"), Open: 1, High: 2, Low: 0.5, Close: 1.5, AdjClose: 1.4, Volume: 100},
		{Time: day("2024-01-03"), Open: 1.5, High: 2.5, Low: 1, Close: 2, AdjClose: 1.9, Volume: 200},
		{Time: day("2024-01-04"), Open: 2, High: 3, Low: 1.5, Close: 2.5, AdjClose: 2.4, Volume: 300},
	}

	require.NoError(t, r.RecordBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"), bars))

	got, covered, err := r.LoadBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"))
	require.NoError(t, err)
	assert.True(t, covered)
	assert.Equal(t, bars, got)
}

func TestSQLiteRecorder_Coverage(t *testing.T) {
	r := openTestDB(t)
	bars := []model.OHLCV{
		{Time: day("2024-01-02"), Close: 10},
		{Time: day("2024-01-03"), Close: 11},
	}
	require.NoError(t, r.RecordBars("SPY", "csv", day("2024-01-01"), day("2024-01-05"), bars))

	// Sub-range is served and trimmed to [start, end).
	got, covered, err := r.LoadBars("SPY", "csv", day("2024-01-02"), day("2024-01-03"))
	require.NoError(t, err)
	assert.True(t, covered)
	require.Len(t, got, 1)
	assert.Equal(t, day("2024-01-02"), got[0].Time)

	// Wider range or another symbol is a miss.
	_, covered, err = r.LoadBars("SPY", "csv", day("2023-12-01"), day("2024-01-05"))
	require.NoError(t, err)
	assert.False(t, covered)

	_, covered, err = r.LoadBars("QQQ", "csv", day("2024-01-01"), day("2024-01-05"))
	require.NoError(t, err)
	assert.False(t, covered)
}

func TestSQLiteRecorder_SourcesAreIsolated(t *testing.T) {
	r := openTestDB(t)
	require.NoError(t, r.RecordBars("SPY", "csv", day("2024-01-01"), day("2024-01-05"),
		[]model.OHLCV{{Time: day("2024-01-02"), Close: 10}}))

	_, covered, err := r.LoadBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"))
	require.NoError(t, err)
	assert.False(t, covered, "csv import must not satisfy a yahoo run")

	require.NoError(t, r.RecordBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"),
		[]model.OHLCV{{Time: day("2024-01-02"), Close: 20}}))

	got, covered, err := r.LoadBars("SPY", "csv", day("2024-01-01"), day("2024-01-05"))
	require.NoError(t, err)
	assert.True(t, covered)
	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].Close, "yahoo bars do not overwrite csv bars")

	got, covered, err = r.LoadBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"))
	require.NoError(t, err)
	assert.True(t, covered)
	require.Len(t, got, 1)
	assert.Equal(t, 20.0, got[0].Close)
}

func TestSQLiteRecorder_ReplaceOnRefetch(t *testing.T) {
	r := openTestDB(t)
	require.NoError(t, r.RecordBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"),
		[]model.OHLCV{{Time: day("2024-01-02"), Close: 10}}))
	require.NoError(t, r.RecordBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"),
		[]model.OHLCV{{Time: day("2024-01-02"), Close: 12}}))

	got, _, err := r.LoadBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12.0, got[0].Close)
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	require.NoError(t, n.RecordBars("SPY", "x", day("2024-01-01"), day("2024-01-05"),
		[]model.OHLCV{{Time: day("2024-01-02"), Close: 1}}))
	bars, covered, err := n.LoadBars("SPY", "yahoo", day("2024-01-01"), day("2024-01-05"))
	assert.NoError(t, err)
	assert.False(t, covered)
	assert.Nil(t, bars)
	assert.NoError(t, n.Close())
}
