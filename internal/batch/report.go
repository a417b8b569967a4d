package batch

import (
	"fmt"
	"strings"

	"github.com/example/outreach-dispatch/internal/models"
)

// Aggregate stable-partitions outcomes into successes and failures. Details
// are kept exactly as produced.
func Aggregate(batchID string, ch models.Channel, outcomes []models.DispatchOutcome) models.BatchReport {
	report := models.BatchReport{
		BatchID:   batchID,
		Channel:   ch,
		Successes: make([]models.DispatchOutcome, 0, len(outcomes)),
		Failures:  make([]models.DispatchOutcome, 0),
	}
	for _, o := range outcomes {
		if o.Success {
			report.Successes = append(report.Successes, o)
		} else {
			report.Failures = append(report.Failures, o)
		}
	}
	return report
}

// Summary renders the one- or two-line batch summary.
func Summary(report models.BatchReport) string {
	var lines []string
	if n := report.SuccessCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("Sent to %d contact(s).", n))
	}
	if n := report.FailureCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("Failed to send to %d contact(s).", n))
	}
	if len(lines) == 0 {
		return "No contacts to send to."
	}
	return strings.Join(lines, "\n")
}
