package notifier

import (
	"errors"
	"fmt"
	"io"

	"CalendarEffects/internal/model"
)

// Console writes the text report to a stream, normally stdout.
type Console struct {
	Out io.Writer
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

// Write prints the formatted report.
func (c *Console) Write(rep *model.AnomalyReport) error {
	if rep == nil || rep.Weekend == nil || rep.January == nil {
		return errors.New("incomplete report")
	}
	if _, err := fmt.Fprint(c.Out, FormatReport(rep)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
