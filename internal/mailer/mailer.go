// Package mailer delivers transactional mail for the application.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"gastronauta/internal/config"
	"gastronauta/internal/middleware"
)

// Mailer sends transactional mail.
type Mailer interface {
	SendResetLink(ctx context.Context, toEmail, username, resetURL string) error
}

// SMTPMailer sends mail over plain SMTP with optional AUTH.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer returns a Mailer backed by the configured SMTP server.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

// SendResetLink mails the password reset link. The raw reset secret only ever
// travels inside this URL.
func (m *SMTPMailer) SendResetLink(_ context.Context, toEmail, username, resetURL string) error {
	subject := "Reset your Gastronauta password"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Someone requested a password reset for your account. "+
			"If that was you, open the link below within the next hour:\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you did not request this, you can ignore this email.\r\n",
		username, resetURL,
	)

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, envelopeFrom(m.from), []string{toEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("sending reset mail: %w", err)
	}
	return nil
}

// envelopeFrom extracts the bare address from a "Name <addr>" header value.
func envelopeFrom(from string) string {
	if i := strings.LastIndex(from, "<"); i != -1 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}

// LogMailer logs the reset link instead of sending it. Used in development
// where no SMTP server is configured.
type LogMailer struct{}

// SendResetLink logs the link at info level.
func (LogMailer) SendResetLink(_ context.Context, toEmail, username, resetURL string) error {
	middleware.Logger.Info("password reset link (mail delivery disabled)",
		"email", toEmail,
		"username", username,
		"url", resetURL,
	)
	return nil
}

// NewFromConfig picks SMTP delivery when a host is configured and falls back
// to logging otherwise.
func NewFromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
