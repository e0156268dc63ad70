package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"CalendarEffects/internal/model"
)

// CSVFetcher implements Fetcher over a local file in Yahoo's download layout
// (Date,Open,High,Low,Close,Adj Close,Volume). Only Date and Close are required.
type CSVFetcher struct {
	Path string
}

// NewCSVFetcher creates a fetcher reading from path.
func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{Path: path}
}

func (f *CSVFetcher) Name() string { return "csv" }

// FetchDailyBars reads the file and returns the rows dated in [start, end).
// The symbol is not checked; the file is assumed to hold one ticker.
func (f *CSVFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open price csv: %w", err)
	}
	defer file.Close()

	bars, err := parseCSV(file, start, end)
	if err != nil {
		return nil, fmt.Errorf("parse price csv %s: %w", f.Path, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows for %s in range", ErrDataUnavailable, f.Path, symbol)
	}
	return bars, nil
}

func parseCSV(r io.Reader, start, end time.Time) ([]model.OHLCV, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateCol, ok := cols["date"]
	if !ok {
		return nil, errors.New("missing Date column")
	}
	closeCol, ok := cols["close"]
	if !ok {
		return nil, errors.New("missing Close column")
	}

	var bars []model.OHLCV
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		date, err := time.Parse("2006-01-02", field(rec, dateCol))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date: %w", line, err)
		}
		if !inRange(date, start, end) {
			continue
		}
		c := parseNumber(field(rec, closeCol))
		if c == 0 {
			continue // null row
		}
		bars = append(bars, model.OHLCV{
			Time:     date,
			Open:     parseNumber(column(rec, cols, "open")),
			High:     parseNumber(column(rec, cols, "high")),
			Low:      parseNumber(column(rec, cols, "low")),
			Close:    c,
			AdjClose: parseNumber(column(rec, cols, "adj close")),
			Volume:   parseNumber(column(rec, cols, "volume")),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func column(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	return field(rec, i)
}

// parseNumber returns 0 for empty or "null" cells.
func parseNumber(s string) float64 {
	if s == "" || strings.EqualFold(s, "null") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
