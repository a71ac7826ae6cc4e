package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pbasc-assistant/internal/adapter/api"
	"pbasc-assistant/internal/adapter/client"
	"pbasc-assistant/internal/adapter/mailer"
	"pbasc-assistant/internal/adapter/store"
	"pbasc-assistant/internal/config"
	"pbasc-assistant/internal/domain/repository"
	"pbasc-assistant/internal/logger"
	"pbasc-assistant/internal/usecase"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serverCommander struct {
	envFile string
	port    string
	debug   bool
}

func newServerCmd() *cobra.Command {
	cmder := &serverCommander{}

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Run the PBASC assistant web server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.envFile, "env-file", ".env", "Path to a dotenv file loaded before reading the environment")
	cmd.Flags().StringVarP(&cmder.port, "port", "p", "", "Port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (s *serverCommander) run(ctx context.Context) error {
	cfg, loaded, err := config.Load(s.envFile)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if s.port != "" {
		cfg.Port = s.port
	}

	log := logger.New(cfg.LogLevel, s.debug, cfg.LogFile)
	defer log.Sync()

	if !loaded {
		log.Warn("env file not found, using system environment variables", zap.String("env_file", s.envFile))
	}

	// 1. Mail transport
	var mail repository.Mailer
	switch cfg.MailTransport {
	case config.TransportSendGrid:
		mail = mailer.NewSendGridMailer(cfg.SendGridAPIKey, "", log)
	default:
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailAddress,
			Password: cfg.EmailPassword,
			Timeout:  cfg.SMTPTimeout,
		}, log)
	}

	// 2. Text generation; left nil without a key so the relay reports it per request
	var textGen repository.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := client.NewGeminiClient(ctx, client.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.UpstreamTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to init genai client: %w", err)
		}
		textGen = gemini
	} else {
		log.Warn("GEMINI_API_KEY is not set; /chat_gemini will answer 500")
	}

	// 3. Image generation
	var imageGen repository.ImageGenerator
	if cfg.ImageAPIKey != "" {
		imageGen = client.NewImageClient(cfg.ImageAPIKey, cfg.ImageAPIURL, cfg.UpstreamTimeout)
	} else {
		log.Warn("IMAGE_API_KEY is not set; /generate_image will answer 500")
	}

	// 4. Optional Redis quota
	var limiter repository.RateLimiter
	if cfg.RateLimitEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		redisLimiter := store.NewRedisLimiter(rdb, cfg.RateLimit, cfg.RateWindow)
		defer redisLimiter.Close()
		limiter = redisLimiter
		log.Info("rate limiting enabled",
			zap.String("redis", cfg.RedisAddr),
			zap.Int("limit", cfg.RateLimit),
			zap.Duration("window", cfg.RateWindow))
	}

	orchestrator := usecase.NewOrchestrator(mail, textGen, imageGen, limiter, log, usecase.Options{
		Sender:    cfg.EmailAddress,
		Recipient: cfg.SuggestionRecipient,
		Timeout:   cfg.UpstreamTimeout,
	})

	app, err := api.NewServer(api.NewRelayHandler(orchestrator, log), api.RouterOptions{
		AllowOrigins: cfg.AllowOrigins,
		SecretKey:    cfg.SecretKey,
		Version:      cfg.AppVersion,
		Env:          cfg.Env,
		AccessLog:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("PBASC assistant running",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("mail_transport", cfg.MailTransport))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
		log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

func main() {
	if err := newServerCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
