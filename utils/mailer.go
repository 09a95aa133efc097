package utils

import (
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/cppla/portfolio/config"
)

var errSMTPNotConfigured = errors.New("smtp not configured")

// Mail is an outgoing plain text message.
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// SendMail delivers msg using the SMTP settings from config.
func SendMail(msg Mail) error {
	cfg := config.Get()
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return errSMTPNotConfigured
	}
	fromName := cfg.SMTPFromName
	if fromName == "" {
		fromName = cfg.SiteTitle
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", cfg.SMTPFrom, fromName)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	d.SSL = cfg.SMTPSSL
	return d.DialAndSend(m)
}

// SendMailAsync sends msg in the background; failures are only logged.
func SendMailAsync(msg Mail) {
	go func() {
		if err := SendMail(msg); err != nil {
			Sugar.Warnw("mail delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
		}
	}()
}
