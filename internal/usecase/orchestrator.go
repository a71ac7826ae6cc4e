package usecase

import (
	"context"
	"pbasc-assistant/internal/domain/entity"
	"pbasc-assistant/internal/domain/repository"
	"time"

	"go.uber.org/zap"
)

// Orchestrator runs the three relays. A nil text or image generator means
// the matching API key was not configured; the relay reports that at first
// use instead of failing at startup.
type Orchestrator struct {
	mailer      repository.Mailer
	textGen     repository.TextGenerator
	imageGen    repository.ImageGenerator
	rateLimiter repository.RateLimiter
	logger      *zap.Logger

	sender    string
	recipient string
	timeout   time.Duration
}

type Options struct {
	Sender    string
	Recipient string
	// Timeout caps each outbound call; zero means no extra cap.
	Timeout time.Duration
}

func NewOrchestrator(m repository.Mailer, tg repository.TextGenerator, ig repository.ImageGenerator, rl repository.RateLimiter, logger *zap.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		mailer:      m,
		textGen:     tg,
		imageGen:    ig,
		rateLimiter: rl,
		logger:      logger,
		sender:      opts.Sender,
		recipient:   opts.Recipient,
		timeout:     opts.Timeout,
	}
}

// checkLimit fails open: a broken limiter store must not take the relays down.
func (o *Orchestrator) checkLimit(ctx context.Context, clientKey string) error {
	if o.rateLimiter == nil {
		return nil
	}
	allowed, err := o.rateLimiter.Allow(ctx, clientKey)
	if err != nil {
		o.logger.Warn("rate limiter check failed, allowing request", zap.String("client", clientKey), zap.Error(err))
		return nil
	}
	if !allowed {
		return entity.NewRateLimited()
	}
	return nil
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}
