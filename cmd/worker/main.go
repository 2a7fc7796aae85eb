// Command worker consumes sentences from Kafka, converts their lemmas and
// publishes the results.
//
// Usage:
//
//	go run ./cmd/worker [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lemmatizer"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lexicon"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/stream"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.Info("starting stream worker",
		"input_topic", cfg.Kafka.Topics.Sentences,
		"output_topic", cfg.Kafka.Topics.Processed,
		"group", cfg.Kafka.ConsumerGroup,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Enabled {
		ms := metrics.NewServer(cfg.Metrics.Port, prometheus.DefaultGatherer)
		ms.Start()
		defer ms.Shutdown(context.Background())
	}

	lex, db, err := lexicon.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to load lexicon", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	lem, err := lemmatizer.New(lemmatizer.Config{
		Mode:             lemmatizer.Lemmatize,
		MultiplePrefixes: cfg.Pipeline.MultiplePrefixes,
	}, lex, m)
	if err != nil {
		slog.Error("failed to build lemmatize pipeline", "error", err)
		os.Exit(1)
	}
	delem, err := lemmatizer.New(lemmatizer.Config{Mode: lemmatizer.Delemmatize}, nil, m)
	if err != nil {
		slog.Error("failed to build delemmatize pipeline", "error", err)
		os.Exit(1)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.Processed)
	defer producer.Close()

	worker := stream.NewWorker(map[lemmatizer.Mode]stream.Processor{
		lemmatizer.Lemmatize:   lem,
		lemmatizer.Delemmatize: delem,
	}, producer, m)

	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.Sentences, worker.Handle)
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil {
		slog.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("stream worker stopped")
}
