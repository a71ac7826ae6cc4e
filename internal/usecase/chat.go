package usecase

import (
	"context"
	"pbasc-assistant/internal/domain/entity"
	"strings"

	"go.uber.org/zap"
)

// Chat forwards one user message to the text generator and returns the
// first candidate's text.
func (o *Orchestrator) Chat(ctx context.Context, clientKey string, req entity.ChatRequest) (*entity.ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, entity.NewInvalidInput("No message provided")
	}

	if o.textGen == nil {
		return nil, entity.NewNotConfigured("text generation is not configured")
	}

	if err := o.checkLimit(ctx, clientKey); err != nil {
		return nil, err
	}

	callCtx, cancel := o.withTimeout(ctx)
	defer cancel()

	text, err := o.textGen.Generate(callCtx, message)
	if err != nil {
		o.logger.Error("text generation failed", zap.Error(err))
		return nil, err
	}

	return &entity.ChatReply{Response: text, Type: entity.ReplyTypeText}, nil
}
