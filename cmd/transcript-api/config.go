// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/peaknote/transcript-service/internal/logging"
)

// flags are the command line flags for the transcript service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the transcript service.
type environment struct {
	Port           string
	NatsURL        string
	WebhookBaseURL string
	Graph          graphConfig
	OpenAI         openAIConfig
}

// graphConfig holds the external calendar API credentials.
type graphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// openAIConfig holds the summarizer credentials.
type openAIConfig struct {
	APIKey string
	Model  string
}

// parseFlags parses command line flags for the transcript service.
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// The debug flag feeds the log level environment variable used by
	// [logging.InitStructureLogConfig].
	if *debug {
		if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the transcript service.
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	model := os.Getenv("OPENAI_MODEL")

	return environment{
		Port:           port,
		NatsURL:        natsURL,
		WebhookBaseURL: os.Getenv("WEBHOOK_BASE_URL"),
		Graph: graphConfig{
			TenantID:     os.Getenv("GRAPH_TENANT_ID"),
			ClientID:     os.Getenv("GRAPH_CLIENT_ID"),
			ClientSecret: os.Getenv("GRAPH_CLIENT_SECRET"),
		},
		OpenAI: openAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  model,
		},
	}
}
