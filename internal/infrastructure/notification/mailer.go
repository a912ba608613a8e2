package notification

import (
	"context"
	"fmt"

	leadapp "github.com/emlak/backend/internal/application/lead"
	"github.com/emlak/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// sender is satisfied by *gomail.Dialer
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers HTML e-mails over SMTP
type SMTPMailer struct {
	sender sender
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer from the mail configuration
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// Send builds the message and hands it to the SMTP server
func (m *SMTPMailer) Send(ctx context.Context, mail leadapp.Mail) error {
	if len(mail.To) == 0 {
		return fmt.Errorf("mail %q has no recipients", mail.Subject)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To...)
	if mail.ReplyTo != "" {
		msg.SetHeader("Reply-To", mail.ReplyTo)
	}
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.HTML)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Info("Mail sent",
		zap.Strings("to", mail.To),
		zap.String("subject", mail.Subject),
	)
	return nil
}

// LogMailer only logs outgoing mail. Used when SMTP is not configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the mail and reports success
func (m *LogMailer) Send(_ context.Context, mail leadapp.Mail) error {
	m.logger.Info("Mail delivery disabled, dropping message",
		zap.Strings("to", mail.To),
		zap.String("reply_to", mail.ReplyTo),
		zap.String("subject", mail.Subject),
	)
	return nil
}

// NewMailer returns an SMTP mailer when mail is enabled and a LogMailer otherwise
func NewMailer(cfg config.MailConfig, logger *zap.Logger) leadapp.Mailer {
	if !cfg.Enabled || cfg.Host == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg, logger)
}

var (
	_ leadapp.Mailer = (*SMTPMailer)(nil)
	_ leadapp.Mailer = (*LogMailer)(nil)
)
