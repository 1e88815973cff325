// Package main is the entry point for dungeonrooms.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/samdwyer/dungeonrooms/internal/game"
	"github.com/samdwyer/dungeonrooms/internal/gamedata"
	"github.com/samdwyer/dungeonrooms/internal/logging"
	"github.com/samdwyer/dungeonrooms/internal/telemetry"
	"github.com/samdwyer/dungeonrooms/internal/ui"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.WithError(err).Warn("telemetry setup failed, running without tracing")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.WithError(err).Error("telemetry shutdown failed")
			}
		}()
	}

	categories, err := gamedata.LoadCategoryRegistry()
	if err != nil {
		logger.WithError(err).Fatal("failed to load categories")
	}

	session, err := game.NewSession(ctx, cfg, game.Deps{Log: logger, Categories: categories})
	if err != nil {
		logger.WithError(err).Fatal("failed to start session")
	}

	if !interactive {
		grid := ui.BuildMap(session.Dungeon(), session.Current().Coordinate())
		if err := ui.WriteText(os.Stdout, grid, categories, game.Status(session)); err != nil {
			logger.WithError(err).Fatal("failed to write map")
		}
		return
	}

	g, err := game.New(session, categories)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize viewer")
	}

	// stderr shares the terminal with the viewer while it runs.
	logger.SetOutput(io.Discard)
	err = g.Run(ctx)
	logger.SetOutput(os.Stderr)
	if err != nil {
		logger.WithError(err).Fatal("viewer exited with error")
	}
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is present.
// Explicit OTEL_* settings win.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_DATASET")
	if dataset == "" {
		dataset = "dungeonrooms"
	}

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_HEADERS") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
