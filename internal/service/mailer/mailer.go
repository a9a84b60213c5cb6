package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/adhyayanx/teachhub/internal/logger"
)

// Mailer delivers plain text messages
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// New returns SMTP mailer when host is configured, log mailer otherwise
func New(cfg SMTPConfig, l logger.Logger) (Mailer, error) {
	if cfg.Host == "" {
		l.Warn("SMTP is not configured, emails will be written to log")
		return NewLog(l), nil
	}
	return NewSMTP(cfg, l)
}

type SMTP struct {
	from   string
	client *mail.Client
	logger logger.Logger
}

func NewSMTP(cfg SMTPConfig, l logger.Logger) (*SMTP, error) {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp sender address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client error: %w", err)
	}

	return &SMTP{from: cfg.From, client: client, logger: l}, nil
}

func (m *SMTP) Send(ctx context.Context, to string, subject string, body string) error {
	msg, err := newMessage(m.from, to, subject, body)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}

	m.logger.Info("Email sent", "to", to, "subject", subject)
	return nil
}

func newMessage(from string, to string, subject string, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("bad sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("bad recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}

// Log mailer writes messages to the log instead of delivering them
type Log struct {
	logger logger.Logger
}

func NewLog(l logger.Logger) *Log {
	return &Log{logger: l}
}

func (m *Log) Send(_ context.Context, to string, subject string, body string) error {
	m.logger.Info("Email not sent, SMTP is not configured", "to", to, "subject", subject, "body", body)
	return nil
}
