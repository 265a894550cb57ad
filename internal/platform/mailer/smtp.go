package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/ykuchin/skillmarket/internal/config"
)

// SMTPMailer implements Mailer over a plain SMTP relay with optional
// STARTTLS and AUTH.
type SMTPMailer struct {
	addr     string
	host     string
	from     string
	username string
	password string
	useTLS   bool
	logger   *slog.Logger
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a Mailer backed by the configured relay.
func NewSMTPMailer(cfg config.SMTPConfig, log *slog.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host cannot be empty")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	return &SMTPMailer{
		addr:     net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		host:     cfg.Host,
		from:     cfg.From,
		username: cfg.Username,
		password: cfg.Password,
		useTLS:   cfg.UseTLS,
		logger:   log.With(slog.String("component", "smtp_mailer")),
	}, nil
}

// Send delivers one HTML message. The context deadline bounds the whole
// SMTP conversation: the dialer honors it and the connection is closed
// when it expires.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp relay: %w", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return fmt.Errorf("failed to set smtp deadline: %w", err)
		}
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if m.useTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return fmt.Errorf("smtp relay %s does not support STARTTLS", m.host)
		}
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("failed to start tls: %w", err)
		}
	}

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail command failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt command failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data command failed: %w", err)
	}

	msg := buildMessage(m.from, to, subject, htmlBody)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message body: %w", err)
	}

	if err := client.Quit(); err != nil {
		// The message was accepted; a failed QUIT is not worth failing the job.
		m.logger.Warn("smtp quit failed", slog.String("error", err.Error()))
	}

	m.logger.Info("email sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, htmlBody string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	return b.String()
}
