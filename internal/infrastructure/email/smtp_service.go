package email

import (
	"context"
	"fmt"
	"net/smtp"

	"newsletter-italiane-backend/pkg/logger"
)

// smtpEmailService consegna a un SMTP locale (mailhog) in sviluppo.
type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewDevEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) Send(ctx context.Context, msg Message) error {
	if err := ValidateAddress(msg.To); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.smtpFrom
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, msg.To, msg.Subject, msg.Text))

	if err := smtp.SendMail(s.smtpAddr, nil, from, []string{msg.To}, raw); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        msg.To,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
