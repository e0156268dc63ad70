package notifier

import (
	"fmt"
	"strings"

	"CalendarEffects/internal/model"
)

const rule = "----------------------------------------"

// FormatReport renders the anomaly report as plain text.
func FormatReport(rep *model.AnomalyReport) string {
	var b strings.Builder

	b.WriteString("\nSTATISTICAL ANOMALY REPORT\n")
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Ticker: %s\n", rep.Symbol))
	b.WriteString(fmt.Sprintf("Dataset Range: %s to %s\n",
		rep.Start.Format("2006-01-02"), rep.End.Format("2006-01-02")))
	b.WriteString(rule + "\n")

	// Day-of-week analysis
	w := rep.Weekend
	b.WriteString("\n1. THE WEEKEND EFFECT (Friday vs Monday)\n")
	b.WriteString(fmt.Sprintf("   Mean Monday Return: %.4f%%\n", w.MeanB))
	b.WriteString(fmt.Sprintf("   Mean Friday Return: %.4f%%\n", w.MeanA))
	b.WriteString(fmt.Sprintf("   P-Value: %.5f\n", w.PValue))
	if w.Significant {
		b.WriteString("   CONCLUSION: Statistically Significant. The difference in means is unlikely due to chance.\n")
	} else {
		b.WriteString("   CONCLUSION: Not Significant. Fail to reject the null hypothesis.\n")
	}

	// January analysis
	j := rep.January
	b.WriteString("\n2. THE JANUARY EFFECT\n")
	b.WriteString(fmt.Sprintf("   Mean January Return: %.4f%%\n", j.MeanA))
	b.WriteString(fmt.Sprintf("   Mean Rest of Year:   %.4f%%\n", j.MeanB))
	b.WriteString(fmt.Sprintf("   P-Value: %.5f\n", j.PValue))
	if j.Significant {
		b.WriteString("   CONCLUSION: Statistically Significant. January returns differ from the yearly average.\n")
	} else {
		b.WriteString("   CONCLUSION: Not Significant. No statistical evidence of a January effect.\n")
	}
	b.WriteString(rule + "\n")

	return b.String()
}

// Verdict returns the short significance label for a result.
func Verdict(r *model.HypothesisResult) string {
	if r.Significant {
		return "Statistically Significant"
	}
	return "Not Significant"
}
