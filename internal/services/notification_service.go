package services

import (
	"context"
	"fmt"

	"github.com/messageflow/backend/internal/models"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// MailSender delivers composed emails
type MailSender interface {
	DialAndSend(m ...*mail.Message) error
}

type notificationService struct {
	sender MailSender
	from   string
	to     string
	logger *zap.Logger
}

// NewNotificationService creates a notifier emailing every new message to the to address
func NewNotificationService(sender MailSender, from, to string, logger *zap.Logger) *notificationService {
	return &notificationService{
		sender: sender,
		from:   from,
		to:     to,
		logger: logger,
	}
}

// NewSMTPSender creates a mail sender for an SMTP server
func NewSMTPSender(host string, port int, username, password string) MailSender {
	return mail.NewDialer(host, port, username, password)
}

// NotifyMessage emails the content of message under the name of its schedule
func (s *notificationService) NotifyMessage(ctx context.Context, schedule *models.ScheduledTaskWithModel, message *models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := schedule.Name
	if message.Title != nil && *message.Title != "" {
		subject = *message.Title
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", message.Content)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("message notification sent",
		zap.Int("message_id", message.ID),
		zap.String("to", s.to),
	)
	return nil
}
