// Package kafka wraps segmentio/kafka-go for the stream worker: a consumer
// that hands each message to a Handler and commits it afterwards, and a
// producer that publishes JSON values keyed by sentence ID.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/resilience"
)

// Handler processes one message. A returned error stops the consumer with
// the message uncommitted, so it is delivered again after a restart.
type Handler func(ctx context.Context, key, value []byte) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader  messageReader
	handler Handler
	retry   resilience.RetryConfig
	logger  *slog.Logger
}

func NewConsumer(cfg config.KafkaConfig, topic string, handler Handler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	return newConsumer(r, handler, topic)
}

func newConsumer(r messageReader, handler Handler, topic string) *Consumer {
	return &Consumer{
		reader:  r,
		handler: handler,
		retry: resilience.RetryConfig{
			MaxAttempts:  8,
			InitialDelay: 250 * time.Millisecond,
			MaxDelay:     15 * time.Second,
		},
		logger: slog.Default().With("component", "kafka-consumer", "topic", topic),
	}
}

// Run consumes until ctx is cancelled, which is not an error. Messages of one
// partition are handled in order. Broker errors are retried with backoff;
// Run gives up once the retries are exhausted.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		var msg kafka.Message
		err := resilience.Retry(ctx, "fetch message", c.retry, func() error {
			var err error
			msg, err = c.reader.FetchMessage(ctx)
			if ctx.Err() != nil {
				return resilience.Permanent(ctx.Err())
			}
			return err
		})
		if ctx.Err() != nil {
			c.logger.Info("consumer stopping", "reason", ctx.Err())
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handler(ctx, msg.Key, msg.Value); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("handling message at partition %d offset %d: %w", msg.Partition, msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Warn("commit failed",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// DecodeJSON unmarshals a message value into T.
func DecodeJSON[T any](value []byte) (T, error) {
	var result T
	if err := json.Unmarshal(value, &result); err != nil {
		return result, fmt.Errorf("decoding kafka message: %w", err)
	}
	return result, nil
}
