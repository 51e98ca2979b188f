// Command fwi serves Fire Weather Index predictions over HTTP and, when Kafka
// is configured, scores prediction requests streamed through a topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/fwi-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/fwi-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/fwi-risk-service/internal/config"
	"github.com/couchcryptid/fwi-risk-service/internal/modelsource"
	"github.com/couchcryptid/fwi-risk-service/internal/observability"
	"github.com/couchcryptid/fwi-risk-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	predictor, err := modelsource.Load(ctx, cfg, logger, metrics)
	if err != nil {
		// Already logged by modelsource.
		os.Exit(1)
	}

	svc := pipeline.NewService(predictor, logger, metrics)
	var handler pipeline.Handler = svc
	if cfg.PredictionCacheSize > 0 {
		handler = pipeline.NewCachedHandler(svc, cfg.PredictionCacheSize, metrics)
		logger.Info("prediction cache enabled", "size", cfg.PredictionCacheSize)
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, handler, svc, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the scoring stream (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, pipeline.NewScorer(handler), writer, logger, metrics, cfg.BatchSize)

		logger.Info("kafka scoring stream enabled",
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
			"group_id", cfg.KafkaGroupID,
		)
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("scoring stream error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka scoring stream disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
