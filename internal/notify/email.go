package notify

import (
	"fmt"
	"net/smtp"

	"rentdesk/internal/common"
	"rentdesk/internal/config"
)

type smtpEmailService struct {
	cfg config.EmailConfig
}

// NewEmailService returns an SMTP-backed sender, or nil when email is not
// configured so callers can skip the observer entirely.
func NewEmailService(cfg config.EmailConfig) common.EmailService {
	if !cfg.Enabled || cfg.SMTPHost == "" {
		return nil
	}
	return &smtpEmailService{cfg: cfg}
}

func (s *smtpEmailService) SendEmail(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.FromEmail, to, subject, body))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, msg)
}
