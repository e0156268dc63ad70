package recorder

import (
	"time"

	"CalendarEffects/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) LoadBars(_, _ string, _, _ time.Time) ([]model.OHLCV, bool, error) {
	return nil, false, nil
}

func (n *NoopRecorder) RecordBars(_, _ string, _, _ time.Time, _ []model.OHLCV) error {
	return nil
}

func (n *NoopRecorder) Close() error { return nil }
