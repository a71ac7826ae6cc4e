package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"pbasc-assistant/internal/domain/entity"
	"strings"

	"go.uber.org/zap"
)

const SuggestionSubject = "New Service Suggestion for PBASC"

var suggestionTmpl = template.Must(template.New("suggestion").Parse(`
<html>
<body>
    <h2 style="color: #014B7B;">New Service Suggestion</h2>
    <p style="font-size: 16px;">A new suggestion has been submitted via the PBASC chatbot:</p>
    <p style="font-size: 16px; color: #4CAF50;">"{{.}}"</p>
    <p style="font-size: 16px;">Please review the suggestion and take action accordingly.</p>
    <br>
    <footer>
        <p style="font-size: 14px; color: #777;">This is an automated email from PBASC. If you did not expect this email, please ignore it.</p>
    </footer>
</body>
</html>
`))

// RenderSuggestionHTML embeds the suggestion into the notification body.
// html/template escapes the text, so markup in a suggestion arrives inert.
func RenderSuggestionHTML(suggestion string) (string, error) {
	var buf bytes.Buffer
	if err := suggestionTmpl.Execute(&buf, suggestion); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Suggest emails the trimmed suggestion to the fixed recipient. An empty
// suggestion is still sent.
func (o *Orchestrator) Suggest(ctx context.Context, req entity.SuggestionRequest) error {
	suggestion := strings.TrimSpace(req.Suggestion)
	o.logger.Info("received suggestion", zap.Int("length", len(suggestion)))

	if o.mailer == nil {
		return entity.NewNotConfigured("mail transport is not configured")
	}

	body, err := RenderSuggestionHTML(suggestion)
	if err != nil {
		return fmt.Errorf("render suggestion email: %w", err)
	}

	msg := entity.EmailMessage{
		From:     o.sender,
		To:       o.recipient,
		Subject:  SuggestionSubject,
		HTMLBody: body,
	}

	callCtx, cancel := o.withTimeout(ctx)
	defer cancel()

	if err := o.mailer.Send(callCtx, msg); err != nil {
		o.logger.Error("failed to send suggestion email", zap.Error(err))
		return err
	}

	o.logger.Info("suggestion email sent", zap.String("to", o.recipient))
	return nil
}
