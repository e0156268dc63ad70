package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CalendarEffects/internal/analysis"
	"CalendarEffects/internal/chart"
	"CalendarEffects/internal/collector"
	"CalendarEffects/internal/model"
	"CalendarEffects/internal/notifier"
)

// Pipeline runs one acquisition, analysis and rendering pass.
type Pipeline struct {
	Collector *collector.Collector
	Alpha     float64
	Console   *notifier.Console
	// ChartPath is where the PNG is written; empty disables the chart.
	ChartPath    string
	ChartOptions chart.Options
	// Telegram is optional; nil disables delivery.
	Telegram *notifier.TelegramNotifier
	// DateRange, when set, resolves the range at the start of each run instead
	// of the collector's fixed Start/End.
	DateRange func(now time.Time) (start, end time.Time, err error)
	Logger    *zap.Logger
}

// Run executes the pipeline once. Acquisition and evaluation errors abort the
// run before any output. Chart and delivery failures are logged only.
func (p *Pipeline) Run(ctx context.Context) (*model.AnomalyReport, error) {
	runID := uuid.NewString()
	log := p.Logger.With(zap.String("run_id", runID), zap.String("symbol", p.Collector.Symbol))
	started := time.Now()

	start, end := p.Collector.Start, p.Collector.End
	if p.DateRange != nil {
		var err error
		if start, end, err = p.DateRange(started); err != nil {
			return nil, fmt.Errorf("resolve date range: %w", err)
		}
	}

	log.Info("acquiring prices",
		zap.String("from", start.Format("2006-01-02")),
		zap.String("to", end.Format("2006-01-02")))
	series, err := p.Collector.CollectRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}

	rep, err := analysis.Analyze(series, p.Alpha)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	rep.RunID = runID
	for _, r := range []*model.HypothesisResult{rep.Weekend, rep.January} {
		log.Info("hypothesis evaluated",
			zap.String("test", r.Name),
			zap.Float64("t", r.TStat),
			zap.Float64("df", r.DF),
			zap.Float64("p", r.PValue),
			zap.String("verdict", notifier.Verdict(r)))
	}

	if err := p.Console.Write(rep); err != nil {
		return nil, err
	}

	chartSaved := false
	if p.ChartPath != "" {
		if err := chart.Save(p.ChartPath, rep, p.ChartOptions); err != nil {
			log.Error("chart not rendered", zap.Error(err))
		} else {
			chartSaved = true
			log.Info("chart saved", zap.String("path", p.ChartPath))
		}
	}

	if p.Telegram != nil {
		p.deliver(ctx, log, rep, chartSaved)
	}

	log.Info("run complete",
		zap.Int("observations", rep.Observations),
		zap.Duration("elapsed", time.Since(started)))
	return rep, nil
}

func (p *Pipeline) deliver(ctx context.Context, log *zap.Logger, rep *model.AnomalyReport, withChart bool) {
	if err := p.Telegram.SendWithRetry(ctx, notifier.FormatReport(rep), 3); err != nil {
		log.Error("telegram report not sent", zap.Error(err))
		return
	}
	if !withChart {
		return
	}
	caption := fmt.Sprintf("%s calendar effects %s to %s", rep.Symbol,
		rep.Start.Format("2006-01-02"), rep.End.Format("2006-01-02"))
	if err := p.Telegram.SendPhotoWithRetry(ctx, p.ChartPath, caption, 3); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("telegram chart not sent", zap.Error(err))
	}
}
