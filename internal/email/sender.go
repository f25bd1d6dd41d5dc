package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail. Delivery failures are logged by
// callers and never block the triggering operation.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type Config struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	FromName string
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if cfg.SMTPHost == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp host and from address are required")
	}
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}
	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.Username, cfg.Password),
		from:   from,
	}, nil
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

// NoopSender is used when SMTP is not configured (development, tests).
type NoopSender struct{}

func (NoopSender) Send(to, subject, htmlBody string) error {
	return nil
}
