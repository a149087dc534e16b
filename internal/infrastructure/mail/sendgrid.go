// Package mail delivers transactional email for the admin backend.
package mail

import (
	"context"
	"errors"
	"fmt"

	sendgrid "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	customerapp "github.com/shopadmin/backend/internal/application/customer"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const mailSendPath = "/v3/mail/send"

var _ customerapp.Mailer = (*SendGridMailer)(nil)

// SendGridMailer sends mail through the SendGrid v3 API
type SendGridMailer struct {
	apiKey   string
	host     string
	fromName string
	from     string
	logger   *zap.Logger
}

// SendGridOption configures a SendGridMailer
type SendGridOption func(*SendGridMailer)

// WithHost points the mailer at a different API host
func WithHost(host string) SendGridOption {
	return func(m *SendGridMailer) {
		m.host = host
	}
}

// NewSendGridMailer creates a SendGrid mailer from configuration
func NewSendGridMailer(cfg config.MailConfig, logger *zap.Logger, opts ...SendGridOption) (*SendGridMailer, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("sender email is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &SendGridMailer{
		apiKey:   cfg.SendGridAPIKey,
		fromName: cfg.FromName,
		from:     cfg.FromEmail,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Send delivers one message. Non-2xx responses are returned as errors.
func (m *SendGridMailer) Send(ctx context.Context, msg customerapp.Message) error {
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	v3 := sgmail.NewSingleEmail(
		sgmail.NewEmail(m.fromName, m.from),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)

	disabled := false
	v3.SetTrackingSettings(&sgmail.TrackingSettings{
		ClickTracking:        &sgmail.ClickTrackingSetting{Enable: &disabled},
		SubscriptionTracking: &sgmail.SubscriptionTrackingSetting{Enable: &disabled},
	})

	request := sendgrid.GetRequest(m.apiKey, mailSendPath, m.host)
	request.Method = "POST"
	request.Body = sgmail.GetRequestBody(v3)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if response.StatusCode >= 300 {
		m.logger.Warn("SendGrid rejected message",
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body))
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	m.logger.Info("Mail sent",
		zap.String("subject", msg.Subject),
		zap.Int("status", response.StatusCode))
	return nil
}

// LogMailer drops messages, logs the drop, and reports
// customerapp.ErrMailDisabled. It is used when mail delivery is disabled.
type LogMailer struct {
	logger *zap.Logger
}

var _ customerapp.Mailer = (*LogMailer)(nil)

// NewLogMailer creates a LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the subject line only; bodies may carry reset links.
func (m *LogMailer) Send(_ context.Context, msg customerapp.Message) error {
	m.logger.Warn("Mail delivery disabled, message dropped",
		zap.String("subject", msg.Subject))
	return customerapp.ErrMailDisabled
}

// NewMailer returns a SendGrid mailer when mail is enabled, otherwise a LogMailer
func NewMailer(cfg config.MailConfig, logger *zap.Logger) (customerapp.Mailer, error) {
	if !cfg.Enabled {
		return NewLogMailer(logger), nil
	}
	return NewSendGridMailer(cfg, logger)
}
