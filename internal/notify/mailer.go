package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"asset-backend/internal/config"
)

// Mailer sends plain-text mail over SMTP. A mailer with no configured
// host is disabled and silently drops everything.
type Mailer struct {
	host     string
	port     int
	from     string
	fromName string
	auth     smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	m := &Mailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		from:     cfg.SMTP.FromEmail,
		fromName: cfg.SMTP.FromName,
	}
	if cfg.SMTP.User != "" {
		m.auth = smtp.PlainAuth("", cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.Host)
	}
	return m
}

// Enabled reports whether the mailer has an SMTP host to talk to.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

func (m *Mailer) Send(to []string, subject, body string) error {
	if !m.Enabled() || len(to) == 0 {
		return nil
	}
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.fromName, m.from),
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return smtp.SendMail(addr, m.auth, m.from, to, []byte(msg))
}
