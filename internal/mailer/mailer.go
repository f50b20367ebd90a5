// Package mailer delivers event reminders by email.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/domain"
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587
)

// Config holds relay settings. Sender doubles as the SMTP username.
type Config struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

// SMTP sends each reminder over its own authenticated STARTTLS session.
type SMTP struct {
	cfg Config
	log *zap.Logger
}

// NewSMTP creates a dispatcher for the given relay.
func NewSMTP(cfg Config, log *zap.Logger) *SMTP {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	return &SMTP{cfg: cfg, log: log}
}

// SendReminder dials the relay, sends one message and closes the session.
// Any failure is returned as *domain.DeliveryError.
func (s *SMTP) SendReminder(ctx context.Context, r domain.Reminder) error {
	msg, err := s.compose(r)
	if err != nil {
		return &domain.DeliveryError{To: r.To, Err: err}
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Sender),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return &domain.DeliveryError{To: r.To, Err: fmt.Errorf("smtp client: %w", err)}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &domain.DeliveryError{To: r.To, Err: err}
	}

	s.log.Info("reminder sent", zap.String("to", r.To), zap.String("event", r.EventName))
	return nil
}

func (s *SMTP) compose(r domain.Reminder) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.Sender); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := m.To(r.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	m.Subject(Subject(r))
	m.SetBodyString(mail.TypeTextPlain, Body(r))
	return m, nil
}

// Subject is the reminder subject line.
func Subject(r domain.Reminder) string {
	return "Upcoming Event Reminder: " + r.EventName
}

// Body is the plain-text reminder body.
func Body(r domain.Reminder) string {
	return fmt.Sprintf(bodyFmt, r.EventName, r.EventTime, r.Location)
}

const bodyFmt = "Hello,\n\n" +
	"Your event '%s' is starting soon!\n\n" +
	"📅 Time: %s\n" +
	"📍 Location: %s\n\n" +
	"See you there!"
