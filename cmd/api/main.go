// Command api runs the document summarization HTTP service.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	hhttp "docsum/internal/handler/http"
	"docsum/internal/handler/http/requestid"
	hsummarize "docsum/internal/handler/http/summarize"

	"docsum/internal/classifier"
	"docsum/internal/infra/extractor"
	"docsum/internal/infra/inference"
	"docsum/internal/infra/summarizer"
	"docsum/internal/observability/logging"
	"docsum/internal/observability/tracing"
	"docsum/internal/registry"
	"docsum/internal/usecase/summarize"
	"docsum/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	if config.GetEnvString("LOG_FORMAT", "json") == "text" {
		logger = logging.NewTextLogger()
	}
	slog.SetDefault(logger)

	reg, err := registry.Load()
	if err != nil {
		logger.Error("failed to load model registry", slog.Any("error", err))
		os.Exit(1)
	}

	gatewayCfg, err := summarizer.LoadGatewayConfig()
	if err != nil {
		logger.Error("failed to load inference gateway config", slog.Any("error", err))
		os.Exit(1)
	}

	service, err := buildService(reg, gatewayCfg)
	if err != nil {
		logger.Error("failed to wire pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	handler := buildHandler(logger, service, reg, gatewayCfg)
	runServer(logger, handler)
}

// buildService wires the pipeline stages: extractors, classifier, selector,
// and the chunked inference engine.
func buildService(reg *registry.Registry, gatewayCfg summarizer.GatewayConfig) (*summarize.Service, error) {
	backends, err := inference.BuildBackends(reg.All(), gatewayCfg, os.Getenv("ANTHROPIC_API_KEY"))
	if err != nil {
		return nil, err
	}

	maxChunks := config.GetEnvInt("MAX_CHUNKS", inference.DefaultMaxChunks)
	engine := inference.NewEngine(backends, reg,
		inference.WithMaxChunks(maxChunks),
		inference.WithParallelism(config.GetEnvInt("CHUNK_PARALLELISM", inference.DefaultChunkParallelism)),
	)

	httpClient := &http.Client{
		Timeout: config.GetEnvDuration("EXTRACTOR_HTTP_TIMEOUT", 30*time.Second, config.ValidatePositiveDuration),
	}

	return summarize.NewService(
		extractor.NewText(),
		extractor.NewPDF(),
		extractor.NewYouTube(httpClient),
		classifier.New(),
		registry.NewSelector(reg, maxChunks),
		reg,
		engine,
	), nil
}

// buildHandler mounts routes and assembles the middleware chain.
func buildHandler(logger *slog.Logger, service *summarize.Service, reg *registry.Registry, gatewayCfg summarizer.GatewayConfig) http.Handler {
	mux := http.NewServeMux()

	hsummarize.Register(mux, service, reg)

	health := &hhttp.HealthHandler{
		Registry:          reg,
		GatewayConfigured: gatewayCfg.BaseURL != "",
		Version:           config.GetEnvString("APP_VERSION", "dev"),
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /healthz", health)
	mux.Handle("GET /readyz", &hhttp.ReadyHandler{Registry: reg})
	mux.Handle("GET /livez", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", 120*time.Second,
		func(d time.Duration) error {
			return config.ValidateDurationRange(d, time.Second, 10*time.Minute)
		})
	maxBodyBytes := int64(config.GetEnvInt("MAX_BODY_BYTES", 10<<20))

	middlewares := []hhttp.Middleware{
		hhttp.Recover(logger),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware(mux),
	}
	if config.GetEnvBool("RATE_LIMIT_ENABLED", true) {
		rateLimiter := hhttp.NewRateLimiter(
			float64(config.GetEnvInt("RATE_LIMIT_RPS", 5)),
			config.GetEnvInt("RATE_LIMIT_BURST", 10),
		)
		middlewares = append(middlewares, rateLimiter.Limit)
	}
	middlewares = append(middlewares,
		hhttp.LimitRequestBody(maxBodyBytes),
		hhttp.Timeout(requestTimeout),
	)

	return hhttp.Chain(mux, middlewares...)
}

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM, then
// drains in-flight requests before exiting.
func runServer(logger *slog.Logger, handler http.Handler) {
	addr := ":" + config.GetEnvString("PORT", "8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	}
}
