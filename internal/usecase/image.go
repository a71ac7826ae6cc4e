package usecase

import (
	"context"
	"pbasc-assistant/internal/domain/entity"
	"strings"

	"go.uber.org/zap"
)

// ImagineCommand is the chat widget's trigger for image generation.
const ImagineCommand = "/imagine"

// ExtractPrompt strips a leading /imagine token and surrounding whitespace.
func ExtractPrompt(message string) string {
	prompt := strings.TrimSpace(message)
	prompt = strings.TrimPrefix(prompt, ImagineCommand)
	return strings.TrimSpace(prompt)
}

// DataURI wraps a base64 PNG payload for direct use in an <img> src.
func DataURI(b64 string) string {
	return "data:image/png;base64," + b64
}

// Imagine generates an image for the prompt in req.Message. The missing-key
// check runs first so an unconfigured relay fails the same way for any input.
func (o *Orchestrator) Imagine(ctx context.Context, clientKey string, req entity.ImageRequest) (*entity.ImageReply, error) {
	if o.imageGen == nil {
		return nil, entity.NewNotConfigured("image generation is not configured")
	}

	prompt := ExtractPrompt(req.Message)
	if prompt == "" {
		return nil, entity.NewInvalidInput("No prompt provided")
	}

	if err := o.checkLimit(ctx, clientKey); err != nil {
		return nil, err
	}

	callCtx, cancel := o.withTimeout(ctx)
	defer cancel()

	b64, err := o.imageGen.GenerateImage(callCtx, prompt)
	if err != nil {
		o.logger.Error("image generation failed", zap.Error(err))
		return nil, err
	}

	return &entity.ImageReply{Response: DataURI(b64), Type: entity.ReplyTypeImage}, nil
}
