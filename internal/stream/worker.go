// Package stream processes sentences arriving on a Kafka topic and publishes
// the results to another.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lemmatizer"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/resilience"
)

// Processor rewrites one sentence in place.
type Processor interface {
	ProcessSentence(s conllx.Sentence) error
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

type Worker struct {
	processors map[lemmatizer.Mode]Processor
	publisher  Publisher
	retry      resilience.RetryConfig
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewWorker returns a worker for the given modes. m may be nil.
func NewWorker(processors map[lemmatizer.Mode]Processor, publisher Publisher, m *metrics.Metrics) *Worker {
	return &Worker{
		processors: processors,
		publisher:  publisher,
		retry: resilience.RetryConfig{
			MaxAttempts:  5,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     5 * time.Second,
		},
		metrics: m,
		logger:  slog.Default().With("component", "stream-worker"),
	}
}

// Handle processes one message. Malformed messages are dropped. A sentence
// that cannot be processed is answered with an error result. Only a failure
// to publish is returned, which leaves the message uncommitted.
func (w *Worker) Handle(ctx context.Context, key, value []byte) error {
	msg, err := kafka.DecodeJSON[api.StreamMessage](value)
	if err == nil && msg.ID == "" {
		msg.ID = string(key)
	}
	if err == nil && msg.ID == "" {
		err = errors.New("message without id")
	}
	if err != nil {
		w.logger.Warn("dropping malformed message", "key", string(key), "error", err)
		w.count("malformed")
		return nil
	}

	result := api.StreamResult{ID: msg.ID}
	if perr := w.process(msg); perr != nil {
		w.logger.Warn("sentence rejected", "id", msg.ID, "mode", msg.Mode, "error", perr)
		result.Error = perr.Error()
	} else {
		result.Sentence = msg.Sentence
	}

	err = resilience.Retry(ctx, "publish result", w.retry, func() error {
		return w.publisher.Publish(ctx, msg.ID, result)
	})
	if err != nil {
		w.count("publish_failed")
		return fmt.Errorf("publishing result %s: %w", msg.ID, err)
	}

	if result.Error != "" {
		w.count("failed")
	} else {
		w.count("processed")
	}
	return nil
}

func (w *Worker) process(msg api.StreamMessage) error {
	mode, err := lemmatizer.ParseMode(msg.Mode)
	if err != nil {
		return err
	}
	p, ok := w.processors[mode]
	if !ok {
		return fmt.Errorf("mode %s is not enabled", mode)
	}
	if len(msg.Sentence) == 0 {
		return errors.New("sentence has no tokens")
	}
	return p.ProcessSentence(msg.Sentence)
}

func (w *Worker) count(result string) {
	if w.metrics != nil {
		w.metrics.StreamMessagesTotal.WithLabelValues(result).Inc()
	}
}
