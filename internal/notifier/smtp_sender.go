package notifier

import (
	"context"

	gomail "gopkg.in/gomail.v2"

	"github.com/riedtal/admission-backend/internal/config"
)

// SMTPSender delivers messages through a plain SMTP relay.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Pass)
	return d.DialAndSend(m)
}

// FromConfig picks the SMTP sender when a host is configured, otherwise the
// log-only sender.
func FromConfig(cfg config.SMTPConfig, logSender *LogSender) Sender {
	if cfg.Host == "" {
		return logSender
	}
	return NewSMTPSender(cfg)
}
