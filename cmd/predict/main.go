// Command predict scores a single set of observations and prints the
// response as JSON. Inputs default to the midpoint of their accepted range.
//
// Usage:
//
//	go run ./cmd/predict -temperature 35 -rh 40 -ws 18 -isi 9.5 -class 1
//
// The model is located through the same MODEL_* variables as the service;
// -model-dir overrides MODEL_DIR for local artifacts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/fwi-risk-service/internal/config"
	"github.com/couchcryptid/fwi-risk-service/internal/domain"
	"github.com/couchcryptid/fwi-risk-service/internal/modelsource"
	"github.com/couchcryptid/fwi-risk-service/internal/observability"
	"github.com/couchcryptid/fwi-risk-service/internal/pipeline"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	req := domain.DefaultRequest()
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&req.Temperature, "temperature", req.Temperature, "noon temperature in °C (22-42)")
	fs.Float64Var(&req.RelativeHumidity, "rh", req.RelativeHumidity, "relative humidity in % (21-90)")
	fs.Float64Var(&req.WindSpeed, "ws", req.WindSpeed, "wind speed in km/h (6-29)")
	fs.Float64Var(&req.Rain, "rain", req.Rain, "daily rain in mm (0-16.8)")
	fs.Float64Var(&req.FFMC, "ffmc", req.FFMC, "Fine Fuel Moisture Code (28.6-92.5)")
	fs.Float64Var(&req.DMC, "dmc", req.DMC, "Duff Moisture Code (1.1-65.9)")
	fs.Float64Var(&req.ISI, "isi", req.ISI, "Initial Spread Index (0-18.5)")
	fs.Float64Var(&req.FireClass, "class", req.FireClass, "fire class: 0 no fire, 1 fire")
	fs.Float64Var(&req.Region, "region", req.Region, "region: 0 Bejaia, 1 Sidi-Bel Abbes")
	modelDir := fs.String("model-dir", cfg.ModelDir, "directory holding scaler and regressor artifacts")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg.ModelDir = *modelDir

	logger := stderrLogger(stderr, cfg.LogLevel)
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	predictor, err := modelsource.Load(ctx, cfg, logger, metrics)
	if err != nil {
		return 1
	}

	resp := pipeline.NewService(predictor, logger, metrics).Handle(ctx, req)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintf(stderr, "encode response: %v\n", err)
		return 1
	}
	if !resp.OK() {
		return 1
	}
	return 0
}

// stderrLogger keeps stdout free for the JSON result. Unknown levels fall
// back to info.
func stderrLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
