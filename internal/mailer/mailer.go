package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/nexscholar/backend/pkg/config"
)

// Sender delivers one mail message. The dispatcher depends on this interface
// so tests can substitute a recording implementation.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender implements Sender over an SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a new SMTPSender from the application config
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

// Send delivers a plain-text mail
func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
