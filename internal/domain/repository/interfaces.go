package repository

import (
	"context"
	"pbasc-assistant/internal/domain/entity"
)

type Mailer interface {
	Send(ctx context.Context, msg entity.EmailMessage) error
}

// TextGenerator returns the first candidate's text for a single user turn.
type TextGenerator interface {
	Generate(ctx context.Context, message string) (string, error)
}

// ImageGenerator returns the base64 payload of the first generated image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, clientKey string) (bool, error)
}
