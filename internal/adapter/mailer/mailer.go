// Package mailer sends the verification and listing-created emails.
package mailer

import (
	"crypto/tls"
	"fmt"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPNotifier struct {
	from   string
	sender Sender
	logger *logger.Logger
}

// New returns an SMTP notifier, or a LogNotifier when no host is configured.
func New(cfg Config, log *logger.Logger) domain.Notifier {
	if cfg.Host == "" {
		return NewLogNotifier(log)
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	return NewSMTPNotifier(cfg.From, d, log)
}

func NewSMTPNotifier(from string, sender Sender, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		from:   from,
		sender: sender,
		logger: log.Named("SMTPNotifier"),
	}
}

func (n *SMTPNotifier) SendVerificationEmail(toEmail, code string) error {
	body := fmt.Sprintf("Welcome to Skip2Love!\n\nYour verification code is: %s\n\nEnter it to confirm your email address.", code)
	return n.send(toEmail, "Confirm your Skip2Love account", body)
}

func (n *SMTPNotifier) SendListingCreatedEmail(toEmail, listingTitle string) error {
	body := fmt.Sprintf("Your listing '%s' has been created successfully.", listingTitle)
	return n.send(toEmail, "New Listing Created", body)
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.sender.DialAndSend(m); err != nil {
		n.logger.Error("failed to send email", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// LogNotifier writes emails to the log. Used in development.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log.Named("LogNotifier")}
}

func (n *LogNotifier) SendVerificationEmail(toEmail, code string) error {
	n.logger.Info("verification email", zap.String("to", toEmail), zap.String("code", code))
	return nil
}

func (n *LogNotifier) SendListingCreatedEmail(toEmail, listingTitle string) error {
	n.logger.Info("listing created email", zap.String("to", toEmail), zap.String("title", listingTitle))
	return nil
}

var (
	_ domain.Notifier = (*SMTPNotifier)(nil)
	_ domain.Notifier = (*LogNotifier)(nil)
)
