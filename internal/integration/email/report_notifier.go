package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cdr-billing/backend/internal/application/adapter"
	"github.com/cdr-billing/backend/internal/domain/entity"
)

// ReportNotifier mails a short summary after a successful aggregation run.
// Delivery failures are logged and never fail the run.
type ReportNotifier struct {
	sender    adapter.EmailSender
	recipient string
}

// NewReportNotifier creates a new ReportNotifier instance. An empty
// recipient disables notifications.
func NewReportNotifier(sender adapter.EmailSender, recipient string) *ReportNotifier {
	return &ReportNotifier{
		sender:    sender,
		recipient: recipient,
	}
}

// NotifyReportReady sends the report-ready email, best effort.
func (n *ReportNotifier) NotifyReportReady(ctx context.Context, summary entity.GlobalSummary, from, to time.Time) {
	if n.recipient == "" || n.sender == nil {
		return
	}

	subject := fmt.Sprintf("CDR report ready: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	text := fmt.Sprintf(
		"Aggregation finished.\n\nContracts: %d\nCalls: %d\nTotal cost: %s EUR\nTotal duration: %d s\n",
		summary.Overview.TotalContracts,
		summary.Overview.TotalCalls,
		summary.Overview.TotalCost,
		summary.Overview.TotalDurationSeconds,
	)
	html := fmt.Sprintf(
		"<p>Aggregation finished.</p><ul><li>Contracts: %d</li><li>Calls: %d</li><li>Total cost: %s EUR</li><li>Total duration: %d s</li></ul>",
		summary.Overview.TotalContracts,
		summary.Overview.TotalCalls,
		summary.Overview.TotalCost,
		summary.Overview.TotalDurationSeconds,
	)

	msg := &adapter.EmailMessage{
		To:      []string{n.recipient},
		Subject: subject,
		HTML:    html,
		Text:    text,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		slog.Error("failed to send report notification", "error", err)
	}
}
