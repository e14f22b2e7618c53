package services

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/healthmateapp/healthmate-server/internal/config"
	"github.com/healthmateapp/healthmate-server/internal/logger"
)

// EmailService sends transactional mail over SMTP with implicit TLS.
type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled reports whether sender credentials are configured. When false,
// Send logs and drops the message instead of failing the caller.
func (s *EmailService) Enabled() bool {
	return s.cfg.Sender != "" && s.cfg.Password != ""
}

func (s *EmailService) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}
	if !s.Enabled() {
		logger.Warningf("Email sending disabled, dropping message %q to %v", subject, to)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Sender, s.cfg.Password)
	d.SSL = s.cfg.Port == 465

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWithAttachment sends a message with a single in-memory attachment.
func (s *EmailService) SendWithAttachment(to []string, subject, htmlBody, filename string, data []byte) error {
	if len(to) == 0 {
		return nil
	}
	if !s.Enabled() {
		logger.Warningf("Email sending disabled, dropping message %q to %v", subject, to)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Sender, s.cfg.Password)
	d.SSL = s.cfg.Port == 465

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
