// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"site-api/internal/common/aws"
	"site-api/internal/common/config"
	"site-api/internal/common/database"
	"site-api/internal/common/logger"
	"site-api/internal/common/observability"
	"site-api/internal/openai"
	"site-api/internal/quota"
	"site-api/internal/recaptcha"
	"site-api/internal/router"
	"site-api/internal/slack"

	cn "site-api/internal/handlers/contact-notify"
	eg "site-api/internal/handlers/estimate-generate"
	ms "site-api/internal/handlers/meeting-summary"
	sg "site-api/internal/handlers/sample-generate"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting API server...",
		zap.String("address", cfg.Server.Address),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("site-api")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Quota store ---
	var tracker *quota.Tracker
	if cfg.Quota.Enabled {
		var store quota.Store
		switch cfg.Quota.Backend {
		case "redis":
			var redisClient *database.RedisClient
			err = retryWithBackoff(func() error {
				var err error
				redisClient, err = database.NewRedis(cfg.Redis)
				if err != nil {
					return err
				}
				pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				return redisClient.Ping(pingCtx)
			}, 5, 2*time.Second, zapLog, "Redis initialization")
			if err != nil {
				// Quota is a UX throttle, not a hard dependency.
				zapLog.Warn("Redis unavailable, falling back to in-memory quota store", zap.Error(err))
				store = quota.NewMemoryStore()
			} else {
				defer redisClient.Close()
				store = quota.NewRedisStore(redisClient.GetClient())
			}
		default:
			store = quota.NewMemoryStore()
		}
		tracker = quota.NewTracker(store, cfg.Quota.DailyLimit, log)
		zapLog.Info("Quota tracking enabled",
			zap.String("backend", cfg.Quota.Backend),
			zap.Int("dailyLimit", cfg.Quota.DailyLimit),
		)
	}

	// --- Outbound clients ---
	completions := openai.NewClient(cfg.OpenAI, log)
	verifier := recaptcha.NewVerifier(cfg.Recaptcha, log)
	notifier := slack.NewWebhookClient(cfg.Slack, log)

	if cfg.OpenAI.APIKey == "" {
		zapLog.Warn("OPENAI_API_KEY not set, completion endpoints will return 500")
	}
	if !notifier.Configured() {
		zapLog.Warn("SLACK_WEBHOOK_URL not set, contact endpoint will return 500")
	}

	var emailSender cn.EmailSender
	if cfg.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Email.AWSRegion)
		if err != nil {
			zapLog.Warn("SES client initialization failed, email copies disabled", zap.Error(err))
		} else {
			emailSender = sesClient
		}
	}

	// --- Handlers ---
	contactConfig := &cn.Config{
		Timeout:      config.GetDuration(config.GetEndpointConfig(cfg, "contact").Timeout),
		EmailEnabled: cfg.Email.Enabled && emailSender != nil,
		FromEmail:    cfg.Email.FromEmail,
		ToEmail:      cfg.Email.ToEmail,
	}
	contactHandler := cn.NewHandler(contactConfig, cn.NewService(cn.ServiceDependencies{
		Logger:   log,
		Notifier: notifier,
		Email:    emailSender,
	}, contactConfig), log)

	summaryConfig := &ms.Config{
		Timeout:        config.GetDuration(config.GetEndpointConfig(cfg, "demo").Timeout),
		ValidateOutput: cfg.Validation.ProviderResponses,
	}
	summaryHandler := ms.NewHandler(summaryConfig, ms.NewService(ms.ServiceDependencies{
		Logger:      log,
		Completions: completions,
	}, summaryConfig), log)

	estimateConfig := &eg.Config{
		Timeout:        config.GetDuration(config.GetEndpointConfig(cfg, "demo_estimate").Timeout),
		ValidateOutput: cfg.Validation.ProviderResponses,
	}
	estimateHandler := eg.NewHandler(estimateConfig, eg.NewService(eg.ServiceDependencies{
		Logger:      log,
		Completions: completions,
	}, estimateConfig), log)

	sampleConfig := &sg.Config{
		Timeout:        config.GetDuration(config.GetEndpointConfig(cfg, "demo_generate_sample").Timeout),
		ValidateOutput: cfg.Validation.ProviderResponses,
	}
	sampleHandler := sg.NewHandler(sampleConfig, sg.NewService(sg.ServiceDependencies{
		Logger:      log,
		Completions: completions,
	}, sampleConfig), log)

	mux := router.New(router.Dependencies{
		Config:   cfg,
		Logger:   log,
		Verifier: verifier,
		Tracker:  tracker,
		Obs:      obs,

		ContactHandler:  contactHandler,
		SummaryHandler:  summaryHandler,
		EstimateHandler: estimateHandler,
		SampleHandler:   sampleHandler,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		zapLog.Fatal("HTTP server failed", zap.Error(err))
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Graceful shutdown failed", zap.Error(err))
	} else {
		zapLog.Info("Server stopped cleanly")
	}
}
