package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/paygrid-hr/payroll-backend-go/internal/config"
)

const maxRetries = 3

const runSummaryTemplate = `<html>
<body>
<p>Payroll run <strong>{{.RunID}}</strong> for branch {{.BranchName}} ({{.Period}}) has finished.</p>
<table border="0" cellpadding="4">
<tr><td>Processed</td><td>{{.Processed}}</td></tr>
<tr><td>Skipped</td><td>{{.Skipped}}</td></tr>
<tr><td>Failed</td><td>{{.Failed}}</td></tr>
<tr><td>Total gross</td><td>{{.TotalGross}}</td></tr>
<tr><td>Total net pay</td><td>{{.TotalNetPay}}</td></tr>
</table>
</body>
</html>`

// RunSummaryData carries the fields rendered into the run summary email.
type RunSummaryData struct {
	RunID       string
	BranchName  string
	Period      string
	Processed   int
	Skipped     int
	Failed      int
	TotalGross  string
	TotalNetPay string
}

// EmailService defines the interface for sending emails
type EmailService interface {
	SendRunSummary(to string, data RunSummaryData) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.New("run_summary").Parse(runSummaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

// SendRunSummary sends a payroll run completion summary
func (s *emailServiceImpl) SendRunSummary(to string, data RunSummaryData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "run_summary", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Payroll run completed for %s (%s)", data.BranchName, data.Period)
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
