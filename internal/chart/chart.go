package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"CalendarEffects/internal/model"
)

// ErrRenderFailure wraps any error raised while drawing or writing the chart.
var ErrRenderFailure = errors.New("chart render failure")

// Options controls the output image.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// DefaultOptions matches a 12x10 inch figure.
func DefaultOptions() Options {
	return Options{Width: 12 * vg.Inch, Height: 10 * vg.Inch, DPI: 96}
}

var (
	background = color.Black
	foreground = color.White
	guide      = color.RGBA{R: 255, G: 255, B: 255, A: 128}
	dayColor   = color.RGBA{R: 33, G: 145, B: 140, A: 255}  // viridis teal
	monthColor = color.RGBA{R: 183, G: 55, B: 121, A: 255} // magma rose
)

// Render draws the weekday and month panels stacked vertically as PNG.
func Render(w io.Writer, rep *model.AnomalyReport, opts Options) error {
	if rep == nil || rep.Weekend == nil || rep.January == nil {
		return fmt.Errorf("%w: incomplete report", ErrRenderFailure)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	dayTitle := fmt.Sprintf("Average Return by Day of Week (%d-%d)\nP-Value (Fri vs Mon): %.4f",
		rep.Start.Year(), lastYear(rep), rep.Weekend.PValue)
	days, err := panel(dayTitle, rep.WeekdayMeans, dayColor, false)
	if err != nil {
		return fmt.Errorf("%w: weekday panel: %v", ErrRenderFailure, err)
	}

	monthTitle := fmt.Sprintf("Average Return by Month\nP-Value (Jan vs Rest): %.4f", rep.January.PValue)
	months, err := panel(monthTitle, rep.MonthMeans, monthColor, true)
	if err != nil {
		return fmt.Errorf("%w: month panel: %v", ErrRenderFailure, err)
	}

	img := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	dc := draw.New(img)
	dc.SetColor(background)
	dc.Fill(dc.Rectangle.Path())

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadTop:    vg.Points(10),
		PadBottom: vg.Points(10),
		PadLeft:   vg.Points(10),
		PadRight:  vg.Points(20),
		PadY:      vg.Points(20),
	}
	plots := [][]*plot.Plot{{days}, {months}}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("%w: encode png: %v", ErrRenderFailure, err)
	}
	return nil
}

// Save renders the chart into the file at path.
func Save(path string, rep *model.AnomalyReport, opts Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, rep, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrRenderFailure, path, err)
	}
	return nil
}

// lastYear is the final calendar year covered by the exclusive end date.
func lastYear(rep *model.AnomalyReport) int {
	return rep.End.AddDate(0, 0, -1).Year()
}

func panel(title string, groups []model.GroupMean, fill color.Color, rotate bool) (*plot.Plot, error) {
	if len(groups) == 0 {
		return nil, errors.New("no groups")
	}

	p := plot.New()
	p.BackgroundColor = background
	p.Title.Text = title
	p.Title.TextStyle.Color = foreground
	p.Y.Label.Text = "Avg Return (%)"
	styleAxis(&p.X)
	styleAxis(&p.Y)

	values := make(plotter.Values, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Mean
		labels[i] = g.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, err
	}
	bars.Color = fill
	bars.LineStyle.Width = 0

	zero, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: 0},
		{X: float64(len(groups)) - 0.5, Y: 0},
	})
	if err != nil {
		return nil, err
	}
	zero.LineStyle.Color = guide
	zero.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(bars, zero)
	p.NominalX(labels...)

	if rotate {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}

func styleAxis(a *plot.Axis) {
	a.Label.TextStyle.Color = foreground
	a.Tick.Label.Color = foreground
	a.LineStyle.Color = foreground
	a.Tick.LineStyle.Color = foreground
}
