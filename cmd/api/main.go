package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/wolfman30/mindmate-ai/cmd/mainconfig"
	"github.com/wolfman30/mindmate-ai/internal/api/router"
	"github.com/wolfman30/mindmate-ai/internal/app/bootstrap"
	appconfig "github.com/wolfman30/mindmate-ai/internal/config"
	"github.com/wolfman30/mindmate-ai/internal/conversation"
	"github.com/wolfman30/mindmate-ai/internal/crisis"
	"github.com/wolfman30/mindmate-ai/internal/dangerwords"
	httpmiddleware "github.com/wolfman30/mindmate-ai/internal/http/middleware"
	"github.com/wolfman30/mindmate-ai/internal/mood"
	"github.com/wolfman30/mindmate-ai/internal/notify"
	"github.com/wolfman30/mindmate-ai/internal/observability/metrics"
	"github.com/wolfman30/mindmate-ai/internal/onboarding"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting mindmate API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
		"ledger_backend", cfg.LedgerBackend,
	)

	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	handler, cleanup, err := buildHandler(appCtx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize API", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := newServer(cfg.Port, handler)

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// newServer leaves room for one LLM timeout plus the media suggestion inside
// the write deadline.
func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func setupMetrics() (http.Handler, *metrics.PipelineMetrics, *metrics.AlertMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipelineMetrics := metrics.NewPipelineMetrics(reg)
	alertMetrics := metrics.NewAlertMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), pipelineMetrics, alertMetrics
}

// awsLoader resolves the shared AWS config once, on first use.
func awsLoader(cfg *appconfig.Config) bootstrap.AWSConfigLoader {
	var (
		loaded bool
		awsCfg aws.Config
		err    error
	)
	return func(ctx context.Context) (aws.Config, error) {
		if !loaded {
			awsCfg, err = mainconfig.LoadAWSConfig(ctx, cfg)
			loaded = true
		}
		return awsCfg, err
	}
}

// buildHandler wires every component behind the router. cleanup releases
// the Redis connection, if one was opened.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	cleanup := func() {}
	metricsHandler, pipelineMetrics, alertMetrics := setupMetrics()
	loadAWS := awsLoader(cfg)

	var redisClient *redis.Client
	if cfg.LedgerBackend == bootstrap.LedgerBackendRedis {
		redisClient = bootstrap.BuildRedisClient(ctx, cfg, logger, true)
		if redisClient != nil {
			cleanup = func() { _ = redisClient.Close() }
		}
	}

	ledger, err := bootstrap.BuildLedger(cfg, redisClient, otel.Tracer("mindmate.internal.dangerwords"), logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	llmClient, err := bootstrap.BuildLLMClient(ctx, cfg, loadAWS, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	profiles := onboarding.NewMemoryStore()
	emailSender := bootstrap.BuildEmailSender(ctx, cfg, loadAWS, logger)
	caregiver := notify.NewCaregiverNotifier(emailSender, profiles, logger).WithReplyTo(cfg.CaregiverReplyTo)
	monitor := dangerwords.NewMonitor(ledger, caregiver, alertMetrics, logger)

	moodService := mood.NewService(mood.NewMemoryStore(), monitor, logger)
	pipeline := conversation.NewPipeline(llmClient, conversation.PipelineConfig{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
		Metrics:     pipelineMetrics,
		Logger:      logger,
	})

	var chatLimiter *httpmiddleware.RateLimiter
	if cfg.ChatRateLimitRPS > 0 && cfg.ChatRateLimitBurst > 0 {
		chatLimiter = httpmiddleware.NewRateLimiter(ctx, cfg.ChatRateLimitRPS, cfg.ChatRateLimitBurst)
	}

	handler := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        conversation.NewHandler(pipeline, bootstrap.MoodStats(moodService), logger),
		CrisisHandler:      crisis.NewHandler(logger),
		DangerWordsHandler: dangerwords.NewHandler(monitor, logger),
		MoodHandler:        mood.NewHandler(moodService, logger),
		OnboardingHandler:  onboarding.NewHandler(profiles, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		ChatLimiter:        chatLimiter,
	})
	return handler, cleanup, nil
}
