package mailer

import (
	"context"
	"fmt"
	"pbasc-assistant/internal/domain/entity"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const sendGridEndpoint = "/v3/mail/send"

type SendGridMailer struct {
	apiKey string
	// host is empty for the public SendGrid API.
	host   string
	logger *zap.Logger
}

func NewSendGridMailer(apiKey, host string, logger *zap.Logger) *SendGridMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendGridMailer{apiKey: apiKey, host: host, logger: logger}
}

func (m *SendGridMailer) Send(ctx context.Context, msg entity.EmailMessage) error {
	if m.apiKey == "" {
		return entity.NewNotConfigured("SendGrid API key is not configured")
	}

	message := sgmail.NewV3MailInit(
		sgmail.NewEmail("", msg.From),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		sgmail.NewContent("text/html", msg.HTMLBody),
	)

	// A fresh request per send: sendgrid.Client mutates its body in place.
	request := sendgrid.GetRequest(m.apiKey, sendGridEndpoint, m.host)
	request.Method = "POST"
	request.Body = sgmail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return entity.NewUpstream(SendFailureMessage, err)
	}

	if response.StatusCode >= 300 {
		m.logger.Error("SendGrid returned an error response",
			zap.Int("status_code", response.StatusCode),
			zap.String("response_body", response.Body))
		return entity.NewUpstream(SendFailureMessage, fmt.Errorf("sendgrid returned status %d", response.StatusCode))
	}
	return nil
}
