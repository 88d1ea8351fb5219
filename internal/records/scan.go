// internal/records/scan.go
package records

import (
	"context"
	"fmt"

	"academy-bot/internal/common/metrics"
)

// ScanSummary counts what a follow-up scan found and did.
type ScanSummary struct {
	Scanned         int
	MissingFollowup int
	Notified        int
	Failed          int
	Unlinked        int
}

func (s ScanSummary) String() string {
	return fmt.Sprintf("scanned %d records: %d missing a signature, %d notified, %d delivery failures, %d with no linked account",
		s.Scanned, s.MissingFollowup, s.Notified, s.Failed, s.Unlinked)
}

// ScanFollowups walks the full student store once and nudges every record
// still missing its signature field. The scan is sequential and best
// effort per record: one delivery failure never halts the rest.
func (w *Workflow) ScanFollowups(ctx context.Context) (ScanSummary, error) {
	var summary ScanSummary

	recs, err := w.store.AllRecords(ctx, StoreStudent)
	if err != nil {
		return summary, err
	}

	for _, rec := range recs {
		summary.Scanned++

		if rec.Signature != "" {
			continue
		}
		summary.MissingFollowup++

		if rec.LinkedAccountID == "" {
			summary.Unlinked++
			continue
		}

		message := fmt.Sprintf("Reminder: your academy application for **%s** is missing a signature. Please complete it to keep your enrollment moving.", rec.Handle)
		if w.notifier.Notify(ctx, rec.LinkedAccountID, message) {
			summary.Notified++
			metrics.NotificationsSent.WithLabelValues("followup_scan", "ok").Inc()
		} else {
			summary.Failed++
			metrics.NotificationsSent.WithLabelValues("followup_scan", "failed").Inc()
			w.logger.Warn("follow-up reminder not delivered", map[string]interface{}{
				"handle": rec.Handle,
				"target": rec.LinkedAccountID,
			})
		}
	}

	return summary, nil
}
