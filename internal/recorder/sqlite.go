package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"CalendarEffects/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists fetched daily bars to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite price cache opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol    TEXT NOT NULL,
			source    TEXT NOT NULL,
			date      TEXT NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL NOT NULL,
			adj_close REAL,
			volume    REAL,
			PRIMARY KEY (symbol, source, date)
		)`,

		`CREATE TABLE IF NOT EXISTS fetch_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol     TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date   TEXT NOT NULL,
			source     TEXT NOT NULL,
			bar_count  INTEGER,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_symbol ON fetch_log(symbol, source)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// LoadBars serves bars only when a fetch from the same source covered the
// range, so CSV imports are never returned to a Yahoo run or vice versa.
func (r *SQLiteRecorder) LoadBars(symbol, source string, start, end time.Time) ([]model.OHLCV, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	startKey, endKey := start.Format(dateLayout), end.Format(dateLayout)

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM fetch_log
		WHERE symbol = ? AND source = ? AND start_date <= ? AND end_date >= ?`,
		symbol, source, startKey, endKey,
	).Scan(&n)
	if err != nil {
		return nil, false, fmt.Errorf("query fetch log: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}

	rows, err := r.db.Query(`SELECT date, open, high, low, close, adj_close, volume
		FROM price_bars
		WHERE symbol = ? AND source = ? AND date >= ? AND date < ?
		ORDER BY date`,
		symbol, source, startKey, endKey,
	)
	if err != nil {
		return nil, false, fmt.Errorf("query price bars: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var (
			date string
			b    model.OHLCV
		)
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, false, fmt.Errorf("scan price bar: %w", err)
		}
		b.Time, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, false, fmt.Errorf("parse cached date %q: %w", date, err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return bars, true, nil
}

func (r *SQLiteRecorder) RecordBars(symbol, source string, start, end time.Time, bars []model.OHLCV) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO price_bars
		(symbol, source, date, open, high, low, close, adj_close, volume)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, source, b.Time.Format(dateLayout),
			b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume); err != nil {
			return fmt.Errorf("insert bar %s: %w", b.Time.Format(dateLayout), err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO fetch_log
		(symbol, start_date, end_date, source, bar_count, fetched_at)
		VALUES (?,?,?,?,?,?)`,
		symbol, start.Format(dateLayout), end.Format(dateLayout),
		source, len(bars), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("insert fetch log: %w", err)
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite price cache")
	return r.db.Close()
}
