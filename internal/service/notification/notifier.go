package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/email"
)

// RunCompletedEvent describes a finished branch payroll run.
type RunCompletedEvent struct {
	RunID       string
	BranchID    string
	BranchName  string
	Month       int
	Year        int
	Processed   int
	Skipped     int
	Failed      int
	TotalGross  decimal.Decimal
	TotalNetPay decimal.Decimal
}

// Notifier receives run lifecycle events. Implementations must tolerate
// being called from a goroutine detached from the request.
type Notifier interface {
	NotifyRunCompleted(ctx context.Context, event RunCompletedEvent) error
}

// NoopNotifier discards all events.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) NotifyRunCompleted(_ context.Context, _ RunCompletedEvent) error {
	return nil
}

// LogNotifier writes run summaries to the structured log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) NotifyRunCompleted(_ context.Context, event RunCompletedEvent) error {
	slog.Info("payroll run completed",
		"run_id", event.RunID,
		"branch_id", event.BranchID,
		"period", fmt.Sprintf("%04d-%02d", event.Year, event.Month),
		"processed", event.Processed,
		"skipped", event.Skipped,
		"failed", event.Failed,
		"total_gross", event.TotalGross.String(),
		"total_net_pay", event.TotalNetPay.String(),
	)
	return nil
}

// EmailNotifier mails a run summary to a fixed recipient.
type EmailNotifier struct {
	mailer    email.EmailService
	recipient string
}

func NewEmailNotifier(mailer email.EmailService, recipient string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, recipient: recipient}
}

func (n *EmailNotifier) NotifyRunCompleted(_ context.Context, event RunCompletedEvent) error {
	branchName := event.BranchName
	if branchName == "" {
		branchName = event.BranchID
	}
	return n.mailer.SendRunSummary(n.recipient, email.RunSummaryData{
		RunID:       event.RunID,
		BranchName:  branchName,
		Period:      fmt.Sprintf("%04d-%02d", event.Year, event.Month),
		Processed:   event.Processed,
		Skipped:     event.Skipped,
		Failed:      event.Failed,
		TotalGross:  event.TotalGross.StringFixed(2),
		TotalNetPay: event.TotalNetPay.StringFixed(2),
	})
}

// MultiNotifier fans an event out to several notifiers, collecting the
// first error but always delivering to all.
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (n *MultiNotifier) NotifyRunCompleted(ctx context.Context, event RunCompletedEvent) error {
	var firstErr error
	for _, notifier := range n.notifiers {
		if err := notifier.NotifyRunCompleted(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
