package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Model artifact sources.
const (
	ModelSourceFile = "file"
	ModelSourceS3   = "s3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Model artifact location.
	ModelSource       string
	ModelDir          string
	ModelScalerKey    string
	ModelRegressorKey string
	ModelS3Bucket     string
	ModelS3Prefix     string
	AWSRegion         string

	// PredictionCacheSize bounds the response cache; 0 disables it.
	PredictionCacheSize int

	// Kafka scoring stream.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string

	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePredictionCacheSize()
	if err != nil {
		return nil, err
	}

	brokers := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled := brokers != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ModelSource:       strings.ToLower(sharedcfg.EnvOrDefault("MODEL_SOURCE", ModelSourceFile)),
		ModelDir:          sharedcfg.EnvOrDefault("MODEL_DIR", "models"),
		ModelScalerKey:    sharedcfg.EnvOrDefault("MODEL_SCALER_KEY", "scaler.json"),
		ModelRegressorKey: sharedcfg.EnvOrDefault("MODEL_REGRESSOR_KEY", "ridge.json"),
		ModelS3Bucket:     os.Getenv("MODEL_S3_BUCKET"),
		ModelS3Prefix:     os.Getenv("MODEL_S3_PREFIX"),
		AWSRegion:         os.Getenv("AWS_REGION"),

		PredictionCacheSize: cacheSize,

		KafkaEnabled:     kafkaEnabled,
		KafkaSourceTopic: sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "fwi-prediction-requests"),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "fwi-risk-assessments"),
		KafkaGroupID:     sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "fwi-risk-service"),

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}
	if brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	switch cfg.ModelSource {
	case ModelSourceFile:
		if cfg.ModelDir == "" {
			return nil, errors.New("MODEL_DIR is required when MODEL_SOURCE is file")
		}
	case ModelSourceS3:
		if cfg.ModelS3Bucket == "" {
			return nil, errors.New("MODEL_S3_BUCKET is required when MODEL_SOURCE is s3")
		}
	default:
		return nil, errors.New("MODEL_SOURCE must be file or s3")
	}
	if cfg.ModelScalerKey == "" || cfg.ModelRegressorKey == "" {
		return nil, errors.New("MODEL_SCALER_KEY and MODEL_REGRESSOR_KEY must not be empty")
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

func parsePredictionCacheSize() (int, error) {
	s := os.Getenv("PREDICTION_CACHE_SIZE")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid PREDICTION_CACHE_SIZE")
	}
	return n, nil
}
