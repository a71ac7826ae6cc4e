// Package mailer delivers suggestion emails over SMTP or the SendGrid API.
package mailer

import (
	"context"
	"fmt"
	"pbasc-assistant/internal/domain/entity"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const SendFailureMessage = "Failed to send the suggestion"

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPMailer opens one STARTTLS session per message. go-mail closes the
// session on every exit path of DialAndSendWithContext.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) Send(ctx context.Context, msg entity.EmailMessage) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return entity.NewNotConfigured("SMTP credentials are not configured")
	}

	gm, err := BuildMessage(msg)
	if err != nil {
		return entity.NewUpstream(SendFailureMessage, err)
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	// go-mail rejects a zero timeout; leave its default in place.
	if m.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.cfg.Timeout))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return entity.NewUpstream(SendFailureMessage, fmt.Errorf("create SMTP client: %w", err))
	}

	m.logger.Debug("dialing SMTP relay", zap.String("host", m.cfg.Host), zap.Int("port", m.cfg.Port))
	if err := client.DialAndSendWithContext(ctx, gm); err != nil {
		return entity.NewUpstream(SendFailureMessage, err)
	}
	return nil
}

// BuildMessage turns an EmailMessage into an HTML MIME message.
func BuildMessage(msg entity.EmailMessage) (*mail.Msg, error) {
	gm := mail.NewMsg()
	if err := gm.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := gm.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid to address %q: %w", msg.To, err)
	}
	gm.Subject(msg.Subject)
	gm.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	return gm, nil
}
